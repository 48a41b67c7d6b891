package pipeline

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/model"
	"github.com/sells-group/crimerate-cli/internal/transform"
)

// AveragePopulation computes each census community's flat mean population
// over the given year columns (all year columns when none are given).
// Communities must be unique after name normalization.
func AveragePopulation(t *model.CensusTable, columns []string) ([]model.CensusRecord, error) {
	idx := make([]int, 0, len(t.YearColumns))
	if len(columns) == 0 {
		for j := range t.YearColumns {
			idx = append(idx, j)
		}
	} else {
		pos := make(map[string]int, len(t.YearColumns))
		for j, name := range t.YearColumns {
			pos[name] = j
		}
		for _, name := range columns {
			j, ok := pos[name]
			if !ok {
				return nil, &LoadError{Path: t.Source, Column: name, Err: eris.New("population column not found")}
			}
			idx = append(idx, j)
		}
	}
	if len(idx) == 0 {
		return nil, &LoadError{Path: t.Source, Err: eris.New("no population columns to average")}
	}

	seen := make(map[string]int, len(t.Rows))
	records := make([]model.CensusRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		key := transform.NormalizeCommunity(r.Community)
		if line, dup := seen[key]; dup {
			return nil, &LoadError{
				Path:   t.Source,
				Line:   r.Line,
				Column: "Community",
				Err:    eris.Errorf("duplicate community %q (first seen on line %d)", r.Community, line),
			}
		}
		seen[key] = r.Line

		pops := make([]int, len(idx))
		sum := 0.0
		for k, j := range idx {
			pops[k] = r.Populations[j]
			sum += float64(r.Populations[j])
		}
		records = append(records, model.CensusRecord{
			Community:   r.Community,
			Populations: pops,
			AvgPop:      sum / float64(len(idx)),
		})
	}
	return records, nil
}

// JoinResult is the output of Join.
type JoinResult struct {
	Records    []model.EnrichedRecord
	Mismatches []model.JoinMismatch
}

// Join left-joins tidy crime records to census averages on the normalized
// community name. Unmatched records keep a nil AvgPop and are reported once
// per community in first-appearance order. If census keys collide, the first
// record wins.
func Join(records []model.CrimeRecord, census []model.CensusRecord) *JoinResult {
	avg := make(map[string]float64, len(census))
	for _, c := range census {
		key := transform.NormalizeCommunity(c.Community)
		if _, ok := avg[key]; !ok {
			avg[key] = c.AvgPop
		}
	}

	res := &JoinResult{Records: make([]model.EnrichedRecord, 0, len(records))}
	missIdx := make(map[string]int)
	for _, r := range records {
		e := model.EnrichedRecord{
			Community: r.Community,
			Category:  r.Category,
			Date:      r.Date,
			Cases:     r.Cases,
		}

		key := transform.NormalizeCommunity(r.Community)
		if v, ok := avg[key]; ok {
			e.AvgPop = model.Float(v)
		} else {
			i, seen := missIdx[key]
			if !seen {
				i = len(res.Mismatches)
				missIdx[key] = i
				res.Mismatches = append(res.Mismatches, model.JoinMismatch{Community: r.Community})
			}
			res.Mismatches[i].Rows++
		}
		res.Records = append(res.Records, e)
	}

	if len(res.Mismatches) > 0 {
		names := make([]string, len(res.Mismatches))
		for i, m := range res.Mismatches {
			names[i] = m.Community
		}
		zap.L().Warn("pipeline: communities missing from census",
			zap.Int("count", len(names)),
			zap.Strings("communities", names),
		)
	}

	return res
}

// Totals groups enriched records by normalized community in first-appearance
// order, sums Cases, and derives Per100. The first spelling of each
// community is kept for display.
func Totals(records []model.EnrichedRecord) []model.CommunityTotal {
	index := make(map[string]int)
	var totals []model.CommunityTotal
	for _, r := range records {
		key := transform.NormalizeCommunity(r.Community)
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			t := model.CommunityTotal{Community: r.Community}
			if r.AvgPop != nil {
				t.AvgPop = model.Float(*r.AvgPop)
			}
			totals = append(totals, t)
		}
		totals[i].TotalByCommunity += r.Cases
	}

	for i := range totals {
		totals[i].Per100 = per100(totals[i].TotalByCommunity, totals[i].AvgPop)
	}
	return totals
}

// per100 returns total/avgPop*100, or nil when avgPop is absent or zero.
func per100(total int, avgPop *float64) *float64 {
	if avgPop == nil || *avgPop == 0 {
		return nil
	}
	return model.Float(float64(total) / *avgPop * 100)
}
