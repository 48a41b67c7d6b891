package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sells-group/crimerate-cli/internal/config"
)

// addPipelineFlags registers the flags shared by every command that runs
// the pipeline. Flags override config values only when set.
func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("crime", "", "crime table path (.csv, .tsv, .xlsx)")
	f.String("census", "", "census table path (.csv, .tsv, .xlsx)")
	f.String("crime-sheet", "", "crime worksheet name (xlsx only)")
	f.String("census-sheet", "", "census worksheet name (xlsx only)")
	f.StringSlice("exclude", nil, "month columns to drop before reshaping")
	f.String("window-start", "", "first month to keep (YYYY-MM)")
	f.String("window-end", "", "last month to keep (YYYY-MM)")
	f.StringSlice("population-columns", nil, "census year columns to average (default all)")
	f.Float64("outlier-threshold", 0, "cases per 100 residents above which a community is an outlier")
	f.Float64("min-population", 0, "average population a community must exceed to be ranked")
	f.String("out", "", "output directory")
	f.StringSlice("format", nil, "output formats: csv, xlsx, json, yaml")
}

// applyPipelineFlags copies explicitly set flags onto c.
func applyPipelineFlags(flags *pflag.FlagSet, c *config.Config) {
	setString(flags, "crime", &c.Pipeline.CrimePath)
	setString(flags, "census", &c.Pipeline.CensusPath)
	setString(flags, "crime-sheet", &c.Pipeline.CrimeSheet)
	setString(flags, "census-sheet", &c.Pipeline.CensusSheet)
	setStrings(flags, "exclude", &c.Pipeline.ExcludeColumns)
	setString(flags, "window-start", &c.Pipeline.WindowStart)
	setString(flags, "window-end", &c.Pipeline.WindowEnd)
	setStrings(flags, "population-columns", &c.Pipeline.PopulationColumns)
	setFloat(flags, "outlier-threshold", &c.Pipeline.OutlierThreshold)
	setFloat(flags, "min-population", &c.Pipeline.MinPopulation)
	setString(flags, "out", &c.Output.Dir)
	setStrings(flags, "format", &c.Output.Formats)
}

func setString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func setStrings(flags *pflag.FlagSet, name string, dst *[]string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetStringSlice(name)
	}
}

func setFloat(flags *pflag.FlagSet, name string, dst *float64) {
	if flags.Changed(name) {
		*dst, _ = flags.GetFloat64(name)
	}
}

func setFloats(flags *pflag.FlagSet, name string, dst *[]float64) {
	if flags.Changed(name) {
		*dst, _ = flags.GetFloat64Slice(name)
	}
}
