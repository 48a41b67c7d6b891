package export

import (
	"encoding/csv"
	"io"
	"reflect"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// rowWriter receives encoded CSV records.
type rowWriter interface {
	Write(record []string) error
}

// WriteCSV writes rows, a slice of csv-tagged structs, with a header row.
// An empty slice still produces the header.
func WriteCSV(w io.Writer, rows any) error {
	cw := csv.NewWriter(w)
	if err := encodeRows(cw, rows); err != nil {
		return err
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

func encodeRows(w rowWriter, rows any) error {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return eris.Errorf("csv: rows must be a slice, got %T", rows)
	}

	enc := csvutil.NewEncoder(w)
	if v.Len() == 0 {
		elem := v.Type().Elem()
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if err := enc.EncodeHeader(reflect.New(elem).Interface()); err != nil {
			return eris.Wrap(err, "csv: encode header")
		}
		return nil
	}
	if err := enc.Encode(rows); err != nil {
		return eris.Wrap(err, "csv: encode rows")
	}
	return nil
}
