package pipeline

import (
	"sort"

	"github.com/sells-group/crimerate-cli/internal/model"
	"github.com/sells-group/crimerate-cli/internal/transform"
)

// CategoryTotals sums cases per category, largest first. Ties keep
// first-appearance order.
func CategoryTotals(records []model.EnrichedRecord) []model.CategoryTotal {
	index := make(map[string]int)
	var out []model.CategoryTotal
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, model.CategoryTotal{Category: r.Category})
		}
		out[i].Cases += r.Cases
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cases > out[j].Cases })
	return out
}

// MonthTotals sums cases per month in chronological order.
func MonthTotals(records []model.EnrichedRecord) []model.MonthTotal {
	sums := make(map[model.Month]int)
	for _, r := range records {
		sums[r.Date] += r.Cases
	}
	out := make([]model.MonthTotal, 0, len(sums))
	for m, n := range sums {
		out = append(out, model.MonthTotal{Date: m, Cases: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CommunityMonthlyMeans returns each community's total cases divided by the
// number of distinct months it reports, in first-appearance order.
func CommunityMonthlyMeans(records []model.EnrichedRecord) []model.CommunityMonthly {
	type acc struct {
		name   string
		cases  int
		months map[model.Month]bool
	}
	index := make(map[string]int)
	var accs []*acc
	for _, r := range records {
		key := transform.NormalizeCommunity(r.Community)
		i, ok := index[key]
		if !ok {
			i = len(accs)
			index[key] = i
			accs = append(accs, &acc{name: r.Community, months: make(map[model.Month]bool)})
		}
		accs[i].cases += r.Cases
		accs[i].months[r.Date] = true
	}

	out := make([]model.CommunityMonthly, len(accs))
	for i, a := range accs {
		out[i] = model.CommunityMonthly{
			Community: a.name,
			Months:    len(a.months),
			MeanCases: float64(a.cases) / float64(len(a.months)),
		}
	}
	return out
}
