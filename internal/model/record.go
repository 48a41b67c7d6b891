package model

import "math"

// CrimeRecord is one tidy observation: cases for a community, category and month.
type CrimeRecord struct {
	Community string `json:"community" yaml:"community" csv:"community"`
	Category  string `json:"category" yaml:"category" csv:"category"`
	Date      Month  `json:"date" yaml:"date" csv:"date"`
	Cases     int    `json:"cases" yaml:"cases" csv:"cases"`
}

// CensusRecord is a community's census populations with their flat mean.
type CensusRecord struct {
	Community   string
	Populations []int
	AvgPop      float64
}

// EnrichedRecord is a CrimeRecord left-joined with its community's average
// population. AvgPop is nil when the community has no census match.
type EnrichedRecord struct {
	Community string   `json:"community" yaml:"community" csv:"community"`
	Category  string   `json:"category" yaml:"category" csv:"category"`
	Date      Month    `json:"date" yaml:"date" csv:"date"`
	Cases     int      `json:"cases" yaml:"cases" csv:"cases"`
	AvgPop    *float64 `json:"avg_pop" yaml:"avg_pop" csv:"avg_pop,omitempty"`
}

// CommunityTotal aggregates all cases for one community. Per100 is nil when
// AvgPop is absent or zero.
type CommunityTotal struct {
	Community        string   `json:"community" yaml:"community" csv:"community"`
	TotalByCommunity int      `json:"total_by_community" yaml:"total_by_community" csv:"total_by_community"`
	AvgPop           *float64 `json:"avg_pop" yaml:"avg_pop" csv:"avg_pop,omitempty"`
	Per100           *float64 `json:"per100" yaml:"per100" csv:"per100,omitempty"`
}

// Rate returns Per100 and whether it is a finite value.
func (c CommunityTotal) Rate() (float64, bool) {
	if c.Per100 == nil {
		return 0, false
	}
	v := *c.Per100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, false
	}
	return v, true
}

// JoinMismatch records a crime community with no census match.
type JoinMismatch struct {
	Community string `json:"community" yaml:"community" csv:"community"`
	Rows      int    `json:"rows" yaml:"rows" csv:"rows"`
}

// CategoryTotal sums cases across all communities and months for a category.
type CategoryTotal struct {
	Category string `json:"category" yaml:"category" csv:"category"`
	Cases    int    `json:"cases" yaml:"cases" csv:"cases"`
}

// MonthTotal sums cases across all communities and categories for a month.
type MonthTotal struct {
	Date  Month `json:"date" yaml:"date" csv:"date"`
	Cases int   `json:"cases" yaml:"cases" csv:"cases"`
}

// CommunityMonthly is a community's mean monthly case count.
type CommunityMonthly struct {
	Community string  `json:"community" yaml:"community" csv:"community"`
	Months    int     `json:"months" yaml:"months" csv:"months"`
	MeanCases float64 `json:"mean_cases" yaml:"mean_cases" csv:"mean_cases"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
