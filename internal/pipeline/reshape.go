package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/crimerate-cli/internal/model"
	"github.com/sells-group/crimerate-cli/internal/transform"
)

// ParseMonthColumns parses every month header of t. It fails on the first
// header that matches no layout or that repeats an earlier month.
func ParseMonthColumns(t *model.CrimeTable, layouts []string) ([]model.Month, error) {
	months := make([]model.Month, len(t.MonthColumns))
	seen := make(map[model.Month]string, len(t.MonthColumns))
	for j, name := range t.MonthColumns {
		m, err := transform.ParseMonthHeader(name, layouts)
		if err != nil {
			return nil, &ReshapeError{Column: name, Index: j, Err: err}
		}
		if prev, dup := seen[m]; dup {
			return nil, &ReshapeError{Column: name, Index: j, Err: eris.Errorf("month %s already provided by column %q", m, prev)}
		}
		seen[m] = name
		months[j] = m
	}
	return months, nil
}

// Reshape converts the wide crime table to tidy records, one per
// (row, month column), in row-then-column order. The table must be cleaned.
func Reshape(t *model.CrimeTable, layouts []string) ([]model.CrimeRecord, error) {
	months, err := ParseMonthColumns(t, layouts)
	if err != nil {
		return nil, err
	}

	records := make([]model.CrimeRecord, 0, len(t.Rows)*len(months))
	for _, r := range t.Rows {
		for j, m := range months {
			c := r.Counts[j]
			if c.Missing {
				return nil, eris.Errorf("reshape: line %d column %q: missing count in uncleaned table", r.Line, t.MonthColumns[j])
			}
			records = append(records, model.CrimeRecord{
				Community: r.Community,
				Category:  r.Category,
				Date:      m,
				Cases:     c.Value,
			})
		}
	}
	return records, nil
}
