package geo

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crimerate-cli/internal/model"
)

// ClassNoData marks a boundary without a finite rate.
const ClassNoData = "no_data"

// Bins are ascending Per100 break points. n break points give n+1 classes:
// below the first, between neighbours, and at or above the last.
type Bins []float64

// Validate checks that bins are non-empty and strictly increasing.
func (b Bins) Validate() error {
	if len(b) == 0 {
		return eris.New("geo: no rate bins")
	}
	for i := 1; i < len(b); i++ {
		if b[i] <= b[i-1] {
			return eris.Errorf("geo: rate bins must be strictly increasing, got %v", []float64(b))
		}
	}
	return nil
}

// Labels returns the class label for each bin in ascending order. Empty
// bins give a single "all" class.
func (b Bins) Labels() []string {
	if len(b) == 0 {
		return []string{"all"}
	}
	labels := make([]string, 0, len(b)+1)
	labels = append(labels, fmt.Sprintf("< %g", b[0]))
	for i := 1; i < len(b); i++ {
		labels = append(labels, fmt.Sprintf("%g - %g", b[i-1], b[i]))
	}
	return append(labels, fmt.Sprintf(">= %g", b[len(b)-1]))
}

// Classify returns the class label for a community total, or ClassNoData
// when it has no finite Per100.
func (b Bins) Classify(t model.CommunityTotal) string {
	rate, ok := t.Rate()
	if !ok {
		return ClassNoData
	}
	i := sort.Search(len(b), func(i int) bool { return rate < b[i] })
	return b.Labels()[i]
}
