package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// sheetWriter appends encoded records as rows of an XLSX sheet.
type sheetWriter struct {
	sheet *xlsx.Sheet
}

func (s *sheetWriter) Write(record []string) error {
	row := s.sheet.AddRow()
	for _, v := range record {
		row.AddCell().SetString(v)
	}
	return nil
}

// WriteXLSX writes each table to its own sheet of a new workbook at path.
func WriteXLSX(path string, tables []Table) error {
	f := xlsx.NewFile()
	for _, t := range tables {
		sheet, err := f.AddSheet(t.Name)
		if err != nil {
			return eris.Wrapf(err, "xlsx: add sheet %s", t.Name)
		}
		if err := encodeRows(&sheetWriter{sheet: sheet}, t.Rows); err != nil {
			return eris.Wrapf(err, "xlsx: sheet %s", t.Name)
		}
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}
