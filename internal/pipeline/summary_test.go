package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crimerate-cli/internal/model"
)

var summaryRecords = []model.EnrichedRecord{
	{Community: "A", Category: "THEFT", Date: month(2017, time.February), Cases: 3},
	{Community: "A", Category: "ASSAULT", Date: month(2017, time.January), Cases: 5},
	{Community: "b", Category: "THEFT", Date: month(2017, time.January), Cases: 2},
	{Community: "B ", Category: "FRAUD", Date: month(2017, time.January), Cases: 5},
	{Community: "a", Category: "THEFT", Date: month(2016, time.December), Cases: 1},
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals(summaryRecords)
	assert.Equal(t, []model.CategoryTotal{
		{Category: "THEFT", Cases: 6},
		{Category: "ASSAULT", Cases: 5},
		{Category: "FRAUD", Cases: 5},
	}, got)
}

func TestMonthTotals(t *testing.T) {
	got := MonthTotals(summaryRecords)
	assert.Equal(t, []model.MonthTotal{
		{Date: month(2016, time.December), Cases: 1},
		{Date: month(2017, time.January), Cases: 12},
		{Date: month(2017, time.February), Cases: 3},
	}, got)
}

func TestCommunityMonthlyMeans(t *testing.T) {
	got := CommunityMonthlyMeans(summaryRecords)
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].Community)
	assert.Equal(t, 3, got[0].Months)
	assert.InDelta(t, 3.0, got[0].MeanCases, 1e-9)

	assert.Equal(t, "b", got[1].Community)
	assert.Equal(t, 1, got[1].Months)
	assert.InDelta(t, 7.0, got[1].MeanCases, 1e-9)
}

func TestSummaries_Empty(t *testing.T) {
	assert.Empty(t, CategoryTotals(nil))
	assert.Empty(t, MonthTotals(nil))
	assert.Empty(t, CommunityMonthlyMeans(nil))
}
