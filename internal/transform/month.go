package transform

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crimerate-cli/internal/model"
)

// DefaultMonthLayouts are the time layouts tried, in order, when parsing a
// month column header.
var DefaultMonthLayouts = []string{
	"2006/1",
	"2006-1",
	"Jan-06",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	"1/2006",
}

// ParseMonthHeader parses a month column header with the first layout that
// matches the whole (trimmed) header. Layouts default to DefaultMonthLayouts.
func ParseMonthHeader(header string, layouts []string) (model.Month, error) {
	if len(layouts) == 0 {
		layouts = DefaultMonthLayouts
	}

	h := strings.TrimSpace(header)
	if h == "" {
		return model.Month{}, eris.New("transform: empty month header")
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, h)
		if err == nil {
			return model.MonthOf(t), nil
		}
	}
	return model.Month{}, eris.Errorf("transform: header %q matches no month layout %q", header, layouts)
}
