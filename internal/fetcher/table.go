package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Format identifies a tabular file format.
type Format string

// Supported tabular formats.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// ReadOptions configures ReadTable.
type ReadOptions struct {
	// Format overrides extension-based detection when set.
	Format Format
	// Sheet selects an XLSX worksheet by name; empty uses the first sheet.
	Sheet string
}

// DetectFormat returns the tabular format implied by the path's extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("table: unsupported file extension %q", filepath.Ext(path))
	}
}

// ReadTable reads every row of a CSV, TSV, or XLSX file. Cell values are
// whitespace-trimmed and fully blank rows are dropped.
func ReadTable(ctx context.Context, path string, opts ReadOptions) ([]Row, error) {
	format := opts.Format
	if format == "" {
		var err error
		format, err = DetectFormat(path)
		if err != nil {
			return nil, err
		}
	}

	var rows []Row
	switch format {
	case FormatCSV, FormatTSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "table: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		csvOpts := CSVOptions{TrimSpace: true, LazyQuotes: true}
		if format == FormatTSV {
			csvOpts.Delimiter = '\t'
		}
		rows, err = ReadCSV(ctx, f, csvOpts)
		if err != nil {
			return nil, eris.Wrapf(err, "table: read %s", path)
		}
	case FormatXLSX:
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrapf(err, "table: open %s", path)
		}
		var err error
		rows, err = ReadXLSX(path, XLSXOptions{SheetName: opts.Sheet, TrimSpace: true})
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("table: unsupported format %q", format)
	}

	out := rows[:0]
	for _, r := range rows {
		if !isBlank(r.Cells) {
			out = append(out, r)
		}
	}
	return out, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
