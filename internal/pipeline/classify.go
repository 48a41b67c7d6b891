package pipeline

import (
	"sort"

	"github.com/sells-group/crimerate-cli/internal/model"
)

// Defaults for ClassifyOptions.
const (
	DefaultOutlierThreshold = 500.0
	DefaultMinPopulation    = 500.0
)

// ClassifyOptions configures Classify.
type ClassifyOptions struct {
	// OutlierThreshold is the Per100 above which a community is an outlier.
	OutlierThreshold float64 `json:"outlier_threshold" yaml:"outlier_threshold"`
	// MinPopulation is the AvgPop a community must exceed to be clean.
	MinPopulation float64 `json:"min_population" yaml:"min_population"`
}

// DefaultClassifyOptions returns the thresholds used for the published case study.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{
		OutlierThreshold: DefaultOutlierThreshold,
		MinPopulation:    DefaultMinPopulation,
	}
}

// withDefaults returns the default options for a zero value, and otherwise
// replaces a non-positive OutlierThreshold. An explicit zero MinPopulation
// is kept when a threshold is set.
func (o ClassifyOptions) withDefaults() ClassifyOptions {
	if o == (ClassifyOptions{}) {
		return DefaultClassifyOptions()
	}
	if o.OutlierThreshold <= 0 {
		o.OutlierThreshold = DefaultOutlierThreshold
	}
	return o
}

// Classification partitions community totals.
type Classification struct {
	// Outliers have no finite Per100 or exceed the threshold, in input order.
	Outliers []model.CommunityTotal `json:"outliers" yaml:"outliers"`
	// Clean are non-outliers above the population floor, by Per100 descending.
	Clean []model.CommunityTotal `json:"clean" yaml:"clean"`
	// BelowFloor are non-outliers at or under the population floor, in input order.
	BelowFloor []model.CommunityTotal `json:"below_floor" yaml:"below_floor"`
}

// IsOutlier reports whether t has no finite Per100 or Per100 > threshold.
func IsOutlier(t model.CommunityTotal, threshold float64) bool {
	rate, ok := t.Rate()
	return !ok || rate > threshold
}

// Classify splits totals into outliers, the clean set, and non-outliers
// that fail the population floor. Ties in the clean ordering keep input order.
// Unset thresholds take their defaults.
func Classify(totals []model.CommunityTotal, opts ClassifyOptions) Classification {
	opts = opts.withDefaults()
	var c Classification
	for _, t := range totals {
		switch {
		case IsOutlier(t, opts.OutlierThreshold):
			c.Outliers = append(c.Outliers, t)
		case t.AvgPop != nil && *t.AvgPop > opts.MinPopulation:
			c.Clean = append(c.Clean, t)
		default:
			c.BelowFloor = append(c.BelowFloor, t)
		}
	}

	sort.SliceStable(c.Clean, func(i, j int) bool {
		return *c.Clean[i].Per100 > *c.Clean[j].Per100
	})
	return c
}
