package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/model"
	"github.com/sells-group/crimerate-cli/internal/transform"
)

// Window selects the month columns kept for reshaping.
type Window struct {
	// Exclude names month columns to drop verbatim (e.g. months of the
	// current year with no data yet).
	Exclude []string
	// Start and End bound the reporting window, inclusive. A zero Month
	// leaves that side open.
	Start model.Month
	End   model.Month
	// Layouts are the month header layouts used to apply Start/End.
	Layouts []string
}

// CleanStats summarizes what Clean changed.
type CleanStats struct {
	FilledCells    int      `json:"filled_cells" yaml:"filled_cells"`
	DroppedColumns []string `json:"dropped_columns" yaml:"dropped_columns"`
}

// FillMissing returns a copy of t with every missing count replaced by zero,
// and the number of cells filled. A missing count means no reported incidents.
func FillMissing(t *model.CrimeTable) (*model.CrimeTable, int) {
	out := t.Clone()
	filled := 0
	for i := range out.Rows {
		for j, c := range out.Rows[i].Counts {
			if c.Missing {
				out.Rows[i].Counts[j] = model.Count{}
				filled++
			}
		}
	}
	return out, filled
}

// SelectMonths returns a copy of t without the columns excluded by w, and
// the names of the dropped columns in their original order. Headers that do
// not parse as months are kept so that Reshape can report them.
func SelectMonths(t *model.CrimeTable, w Window) (*model.CrimeTable, []string) {
	log := zap.L().With(zap.String("component", "pipeline.clean"))

	exclude := make(map[string]bool, len(w.Exclude))
	for _, name := range w.Exclude {
		exclude[name] = true
	}
	seen := make(map[string]bool, len(w.Exclude))

	keep := make([]int, 0, len(t.MonthColumns))
	var dropped []string
	for j, name := range t.MonthColumns {
		if exclude[name] {
			seen[name] = true
			dropped = append(dropped, name)
			continue
		}
		if outsideWindow(name, w) {
			dropped = append(dropped, name)
			continue
		}
		keep = append(keep, j)
	}

	for _, name := range w.Exclude {
		if !seen[name] {
			log.Warn("exclude column not present in crime table", zap.String("column", name))
		}
	}

	out := &model.CrimeTable{
		Source:       t.Source,
		MonthColumns: make([]string, 0, len(keep)),
		Rows:         make([]model.CrimeRow, len(t.Rows)),
	}
	for _, j := range keep {
		out.MonthColumns = append(out.MonthColumns, t.MonthColumns[j])
	}
	for i, r := range t.Rows {
		counts := make([]model.Count, 0, len(keep))
		for _, j := range keep {
			counts = append(counts, r.Counts[j])
		}
		r.Counts = counts
		out.Rows[i] = r
	}

	return out, dropped
}

func outsideWindow(header string, w Window) bool {
	if w.Start.IsZero() && w.End.IsZero() {
		return false
	}
	m, err := transform.ParseMonthHeader(header, w.Layouts)
	if err != nil {
		return false
	}
	if !w.Start.IsZero() && m.Before(w.Start) {
		return true
	}
	return !w.End.IsZero() && m.After(w.End)
}

// Clean fills missing counts and then drops columns outside the window.
func Clean(t *model.CrimeTable, w Window) (*model.CrimeTable, CleanStats) {
	filled, n := FillMissing(t)
	selected, dropped := SelectMonths(filled, w)
	return selected, CleanStats{FilledCells: n, DroppedColumns: dropped}
}
