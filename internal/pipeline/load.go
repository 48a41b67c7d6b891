package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crimerate-cli/internal/fetcher"
	"github.com/sells-group/crimerate-cli/internal/model"
	"github.com/sells-group/crimerate-cli/internal/transform"
)

// LoadOptions configures LoadCrime and LoadCensus.
type LoadOptions struct {
	// Sheet selects an XLSX worksheet by name; ignored for delimited text.
	Sheet           string
	CommunityColumn string // default "Community"
	CategoryColumn  string // default "Category"; crime table only
	// Exclude names crime columns whose cells are not parsed. They load as
	// zero counts so that SelectMonths can drop them by name.
	Exclude         []string
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.CommunityColumn == "" {
		o.CommunityColumn = "Community"
	}
	if o.CategoryColumn == "" {
		o.CategoryColumn = "Category"
	}
	return o
}

// header is a parsed header row: identifying column positions plus the
// remaining value columns in file order.
type header struct {
	names     []string
	index     map[string]int
	valueCols []int
}

// LoadCrime reads the wide crime table. Every column other than the
// community and category columns is a month column; its cells are parsed as
// counts, with empty cells kept as missing, unless it is listed in
// opts.Exclude.
func LoadCrime(ctx context.Context, path string, opts LoadOptions) (*model.CrimeTable, error) {
	opts = opts.withDefaults()

	rows, err := readRows(ctx, path, opts.Sheet)
	if err != nil {
		return nil, err
	}

	h, err := parseHeader(path, rows[0], opts.CommunityColumn, opts.CategoryColumn)
	if err != nil {
		return nil, err
	}
	commIdx := h.index[opts.CommunityColumn]
	catIdx := h.index[opts.CategoryColumn]

	table := &model.CrimeTable{Source: path}
	skip := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		skip[name] = true
	}
	for _, j := range h.valueCols {
		table.MonthColumns = append(table.MonthColumns, h.names[j])
	}

	for _, row := range rows[1:] {
		cells, err := alignRow(path, row, h)
		if err != nil {
			return nil, err
		}

		community := cells[commIdx]
		if community == "" {
			return nil, &LoadError{Path: path, Line: row.Line, Column: opts.CommunityColumn, Err: eris.New("empty community")}
		}
		category := cells[catIdx]
		if category == "" {
			return nil, &LoadError{Path: path, Line: row.Line, Column: opts.CategoryColumn, Err: eris.New("empty category")}
		}

		counts := make([]model.Count, len(h.valueCols))
		for k, j := range h.valueCols {
			if skip[h.names[j]] {
				continue
			}
			c, err := transform.ParseCount(cells[j])
			if err != nil {
				return nil, &LoadError{Path: path, Line: row.Line, Column: h.names[j], Err: err}
			}
			counts[k] = c
		}

		table.Rows = append(table.Rows, model.CrimeRow{
			Line:      row.Line,
			Community: community,
			Category:  category,
			Counts:    counts,
		})
	}

	return table, nil
}

// LoadCensus reads the census table. Every column other than the community
// column is a census year; every population cell must be a non-negative integer.
func LoadCensus(ctx context.Context, path string, opts LoadOptions) (*model.CensusTable, error) {
	opts = opts.withDefaults()

	rows, err := readRows(ctx, path, opts.Sheet)
	if err != nil {
		return nil, err
	}

	h, err := parseHeader(path, rows[0], opts.CommunityColumn)
	if err != nil {
		return nil, err
	}
	if len(h.valueCols) == 0 {
		return nil, &LoadError{Path: path, Line: rows[0].Line, Err: eris.New("no census year columns")}
	}
	commIdx := h.index[opts.CommunityColumn]

	table := &model.CensusTable{Source: path}
	for _, j := range h.valueCols {
		table.YearColumns = append(table.YearColumns, h.names[j])
	}

	for _, row := range rows[1:] {
		cells, err := alignRow(path, row, h)
		if err != nil {
			return nil, err
		}

		community := cells[commIdx]
		if community == "" {
			return nil, &LoadError{Path: path, Line: row.Line, Column: opts.CommunityColumn, Err: eris.New("empty community")}
		}

		pops := make([]int, len(h.valueCols))
		for k, j := range h.valueCols {
			n, err := transform.ParsePopulation(cells[j])
			if err != nil {
				return nil, &LoadError{Path: path, Line: row.Line, Column: h.names[j], Err: err}
			}
			pops[k] = n
		}

		table.Rows = append(table.Rows, model.CensusRow{
			Line:        row.Line,
			Community:   community,
			Populations: pops,
		})
	}

	return table, nil
}

func readRows(ctx context.Context, path, sheet string) ([]fetcher.Row, error) {
	rows, err := fetcher.ReadTable(ctx, path, fetcher.ReadOptions{Sheet: sheet})
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Path: path, Err: eris.New("file is empty")}
	}
	return rows, nil
}

// parseHeader validates the header row and locates the required columns.
// Unnamed columns are dropped; their cells are checked in alignRow.
func parseHeader(path string, row fetcher.Row, required ...string) (*header, error) {
	h := &header{
		names: make([]string, len(row.Cells)),
		index: make(map[string]int, len(row.Cells)),
	}

	isRequired := make(map[string]bool, len(required))
	for _, r := range required {
		isRequired[r] = true
	}

	for j, raw := range row.Cells {
		name := strings.TrimSpace(raw)
		h.names[j] = name
		if name == "" {
			continue
		}
		if _, dup := h.index[name]; dup {
			return nil, &LoadError{Path: path, Line: row.Line, Column: name, Err: eris.New("duplicate column")}
		}
		h.index[name] = j
		if !isRequired[name] {
			h.valueCols = append(h.valueCols, j)
		}
	}

	for _, r := range required {
		if _, ok := h.index[r]; !ok {
			return nil, &LoadError{Path: path, Line: row.Line, Column: r, Err: eris.New("required column not found")}
		}
	}

	return h, nil
}

// alignRow pads short rows to the header width and rejects values that sit
// under an unnamed or nonexistent column.
func alignRow(path string, row fetcher.Row, h *header) ([]string, error) {
	cells := make([]string, len(h.names))
	for j, v := range row.Cells {
		v = strings.TrimSpace(v)
		if j >= len(h.names) || h.names[j] == "" {
			if v != "" {
				return nil, &LoadError{
					Path:   path,
					Line:   row.Line,
					Column: fmt.Sprintf("#%d", j+1),
					Err:    eris.Errorf("value %q under unnamed column", v),
				}
			}
			continue
		}
		cells[j] = v
	}
	return cells, nil
}
