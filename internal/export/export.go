// Package export writes pipeline results to CSV, XLSX, JSON, and YAML files.
package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/pipeline"
)

// Format is an output file format.
type Format string

// Supported output formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormats validates format names, dropping duplicates. Names are
// case-insensitive and "yml" is accepted for YAML.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	var out []Format
	for _, name := range names {
		f := Format(strings.ToLower(strings.TrimSpace(name)))
		if f == "yml" {
			f = FormatYAML
		}
		switch f {
		case FormatCSV, FormatXLSX, FormatJSON, FormatYAML:
		default:
			return nil, eris.Errorf("export: unknown format %q", name)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Table is a named slice of tagged structs.
type Table struct {
	Name string
	Rows any
}

// Tables returns the tabular outputs of a run in a stable order.
func Tables(res *pipeline.Result) []Table {
	return []Table{
		{Name: "tidy", Rows: res.Tidy},
		{Name: "enriched", Rows: res.Enriched},
		{Name: "totals", Rows: res.Totals},
		{Name: "clean", Rows: res.Classification.Clean},
		{Name: "outliers", Rows: res.Classification.Outliers},
		{Name: "below_floor", Rows: res.Classification.BelowFloor},
		{Name: "mismatches", Rows: res.Mismatches},
		{Name: "by_category", Rows: res.ByCategory},
		{Name: "by_month", Rows: res.ByMonth},
		{Name: "monthly_means", Rows: res.MonthlyMeans},
	}
}

// WriteAll writes res into dir in each format and returns the written paths.
// CSV produces one file per table, XLSX one workbook with a sheet per table,
// and JSON and YAML a single document holding the whole result.
func WriteAll(res *pipeline.Result, dir string, formats []Format) ([]string, error) {
	log := zap.L().With(zap.String("component", "export"))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	tables := Tables(res)
	var paths []string
	for _, f := range formats {
		switch f {
		case FormatCSV:
			for _, t := range tables {
				path := filepath.Join(dir, t.Name+".csv")
				if err := writeFile(path, func(file *os.File) error { return WriteCSV(file, t.Rows) }); err != nil {
					return nil, err
				}
				paths = append(paths, path)
			}
		case FormatXLSX:
			path := filepath.Join(dir, "crimerate.xlsx")
			if err := WriteXLSX(path, tables); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		case FormatJSON:
			path := filepath.Join(dir, "result.json")
			if err := writeFile(path, func(file *os.File) error { return WriteJSON(file, res) }); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		case FormatYAML:
			path := filepath.Join(dir, "result.yaml")
			if err := writeFile(path, func(file *os.File) error { return WriteYAML(file, res) }); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		default:
			return nil, eris.Errorf("export: unknown format %q", f)
		}
		log.Info("wrote output", zap.String("format", string(f)), zap.String("dir", dir))
	}
	return paths, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close() //nolint:errcheck
		return eris.Wrapf(err, "export: write %s", path)
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
