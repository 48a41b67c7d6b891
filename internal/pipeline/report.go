package pipeline

import (
	"fmt"
	"strings"
)

// FormatReport generates a human-readable run report listing at most top
// clean communities (all when top <= 0).
func FormatReport(res *Result, top int) string {
	var b strings.Builder

	b.WriteString("# Community Crime Rates\n")
	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	fmt.Fprintf(&b, "Crime: %s\n", res.CrimeSource)
	fmt.Fprintf(&b, "Census: %s\n\n", res.CensusSource)

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Month columns: %d (dropped %d)\n", len(monthColumns(res)), len(res.CleanInfo.DroppedColumns))
	fmt.Fprintf(&b, "- Missing cells filled with 0: %d\n", res.CleanInfo.FilledCells)
	fmt.Fprintf(&b, "- Tidy rows: %d\n", len(res.Tidy))
	fmt.Fprintf(&b, "- Communities: %d\n", len(res.Totals))
	fmt.Fprintf(&b, "- Outliers: %d (Per100 > %s or undefined)\n", len(res.Classification.Outliers), formatFloat(res.Options.OutlierThreshold))
	fmt.Fprintf(&b, "- Below population floor (%s): %d\n", formatFloat(res.Options.MinPopulation), len(res.Classification.BelowFloor))
	fmt.Fprintf(&b, "- Clean: %d\n\n", len(res.Classification.Clean))

	if len(res.Stages) > 0 {
		b.WriteString("## Stages\n")
		for _, s := range res.Stages {
			fmt.Fprintf(&b, "- %s: %dms\n", s.Stage, s.DurationMs)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Communities Missing From Census\n")
	if len(res.Mismatches) == 0 {
		b.WriteString("None.\n\n")
	} else {
		for _, m := range res.Mismatches {
			fmt.Fprintf(&b, "- %s (%d rows)\n", m.Community, m.Rows)
		}
		b.WriteString("\n")
	}

	clean := res.Classification.Clean
	if top > 0 && len(clean) > top {
		clean = clean[:top]
	}
	fmt.Fprintf(&b, "## Highest Rates (top %d of %d)\n", len(clean), len(res.Classification.Clean))
	if len(clean) == 0 {
		b.WriteString("No communities passed the filters.\n\n")
	} else {
		b.WriteString("| Rank | Community | Cases | Avg Pop | Per 100 |\n")
		b.WriteString("|---:|---|---:|---:|---:|\n")
		for i, t := range clean {
			fmt.Fprintf(&b, "| %d | %s | %d | %s | %s |\n",
				i+1, t.Community, t.TotalByCommunity, formatPtr(t.AvgPop, 0), formatPtr(t.Per100, 2))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Outliers\n")
	if len(res.Classification.Outliers) == 0 {
		b.WriteString("None.\n\n")
	} else {
		for _, t := range res.Classification.Outliers {
			fmt.Fprintf(&b, "- %s: %d cases, avg pop %s, per 100 %s\n",
				t.Community, t.TotalByCommunity, formatPtr(t.AvgPop, 0), formatPtr(t.Per100, 2))
		}
		b.WriteString("\n")
	}

	if len(res.ByCategory) > 0 {
		b.WriteString("## Cases by Category\n")
		for _, c := range res.ByCategory {
			fmt.Fprintf(&b, "- %s: %d\n", c.Category, c.Cases)
		}
	}

	return b.String()
}

func monthColumns(res *Result) []string {
	if res.Clean == nil {
		return nil
	}
	return res.Clean.MonthColumns
}

func formatPtr(v *float64, prec int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
