package model

// Count is a crime count cell as read from the source table. Missing
// distinguishes an empty cell from an explicit zero.
type Count struct {
	Value   int
	Missing bool
}

// MissingCount is an empty crime cell.
var MissingCount = Count{Missing: true}

// CrimeTable is the wide crime table: one row per (Community, Category), one
// column per reporting month. Rows[i].Counts[j] is the cell under MonthColumns[j].
type CrimeTable struct {
	Source       string
	MonthColumns []string
	Rows         []CrimeRow
}

// CrimeRow is one (Community, Category) row of the wide crime table.
type CrimeRow struct {
	Line      int
	Community string
	Category  string
	Counts    []Count
}

// Clone returns a deep copy of the table.
func (t *CrimeTable) Clone() *CrimeTable {
	out := &CrimeTable{
		Source:       t.Source,
		MonthColumns: append([]string(nil), t.MonthColumns...),
		Rows:         make([]CrimeRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		r.Counts = append([]Count(nil), r.Counts...)
		out.Rows[i] = r
	}
	return out
}

// CensusTable is the census table: one row per community, one column per census year.
type CensusTable struct {
	Source      string
	YearColumns []string
	Rows        []CensusRow
}

// CensusRow is one community's populations, aligned with CensusTable.YearColumns.
type CensusRow struct {
	Line        int
	Community   string
	Populations []int
}
