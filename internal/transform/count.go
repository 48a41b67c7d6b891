package transform

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crimerate-cli/internal/model"
)

// missingTokens are cell values treated the same as an empty cell.
var missingTokens = map[string]bool{
	"":     true,
	"-":    true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// groupedNumber matches a number with comma thousands separators.
var groupedNumber = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(raw string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// ParseCount parses a non-negative integer count cell. Commas are accepted
// only as thousands separators ("1,204") and integral floats ("3.0") are
// accepted. Missing cells
// return model.MissingCount.
func ParseCount(raw string) (model.Count, error) {
	if IsMissing(raw) {
		return model.MissingCount, nil
	}

	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		if !groupedNumber.MatchString(s) {
			return model.Count{}, eris.Errorf("transform: %q has misplaced thousands separators", raw)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return model.Count{}, eris.Errorf("transform: %q is not a number", raw)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return model.Count{}, eris.Errorf("transform: %q is not a whole number", raw)
		}
		if f > math.MaxInt32 || f < math.MinInt32 {
			return model.Count{}, eris.Errorf("transform: %q is out of range", raw)
		}
		n = int(f)
	}

	if n < 0 {
		return model.Count{}, eris.Errorf("transform: %q is negative", raw)
	}
	return model.Count{Value: n}, nil
}

// ParsePopulation parses a census population cell. Unlike ParseCount, a
// missing cell is an error.
func ParsePopulation(raw string) (int, error) {
	c, err := ParseCount(raw)
	if err != nil {
		return 0, err
	}
	if c.Missing {
		return 0, eris.New("transform: population is empty")
	}
	return c.Value, nil
}
