package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crimerate-cli/internal/config"
)

const testCrimeCSV = `Community,Category,2017/01,2017/02
Beltline,ASSAULT,30,
Downtown,THEFT,10,10
Nowhere,THEFT,1,1
`

const testCensusCSV = `Community,2015,2016
BELTLINE,1000,1000
downtown,2000,2000
`

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	crime := filepath.Join(dir, "crime.csv")
	census := filepath.Join(dir, "census.csv")
	require.NoError(t, os.WriteFile(crime, []byte(testCrimeCSV), 0o644))
	require.NoError(t, os.WriteFile(census, []byte(testCensusCSV), 0o644))
	return crime, census
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"run", "geojoin"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "crimerate", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "root should have --%s flag", name)
	}
}

func TestRunCommand_Flags(t *testing.T) {
	for _, name := range []string{"crime", "census", "exclude", "window-start", "window-end", "outlier-threshold", "min-population", "out", "format", "no-report"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run should have --%s flag", name)
	}
	assert.Equal(t, "false", runCmd.Flags().Lookup("no-report").DefValue)
}

func TestGeojoinCommand_Flags(t *testing.T) {
	for _, name := range []string{"crime", "census", "boundary", "boundary-url", "name-field", "bins", "geojson"} {
		assert.NotNil(t, geojoinCmd.Flags().Lookup(name), "geojoin should have --%s flag", name)
	}
}

func TestApplyPipelineFlags(t *testing.T) {
	c := &config.Config{
		Pipeline: config.PipelineConfig{CrimePath: "from-config.csv", OutlierThreshold: 500},
		Output:   config.OutputConfig{Dir: "out"},
	}

	cmd := &cobra.Command{Use: "test"}
	addPipelineFlags(cmd)
	flags := cmd.Flags()
	require.NoError(t, flags.Set("census", "census.csv"))
	require.NoError(t, flags.Set("exclude", "2017/12,2018/01"))
	require.NoError(t, flags.Set("outlier-threshold", "250"))

	applyPipelineFlags(flags, c)
	assert.Equal(t, "from-config.csv", c.Pipeline.CrimePath)
	assert.Equal(t, "census.csv", c.Pipeline.CensusPath)
	assert.Equal(t, []string{"2017/12", "2018/01"}, c.Pipeline.ExcludeColumns)
	assert.InDelta(t, 250.0, c.Pipeline.OutlierThreshold, 1e-9)
	assert.Equal(t, "out", c.Output.Dir)
}

func TestRunCommand_Execute(t *testing.T) {
	crime, census := writeInputs(t)
	outDir := filepath.Join(t.TempDir(), "out")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"run", "--crime", crime, "--census", census, "--out", outDir, "--format", "csv,json", "--log-level", "warn"})
	require.NoError(t, rootCmd.Execute())

	report := buf.String()
	assert.Contains(t, report, "# Community Crime Rates")
	assert.Contains(t, report, "- Nowhere (2 rows)")
	assert.Contains(t, report, "| 1 | Beltline | 30 | 1000 | 3.00 |")

	data, err := os.ReadFile(filepath.Join(outDir, "result.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc["run_id"])

	_, err = os.Stat(filepath.Join(outDir, "totals.csv"))
	assert.NoError(t, err)
}
