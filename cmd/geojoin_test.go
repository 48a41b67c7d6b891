package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBoundaries(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "communities.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	w.SetFields([]shp.Field{shp.StringField("NAME", 40)})

	for i, name := range []string{"Beltline", "Downtown", "Parkland"} {
		x := float64(i)
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{
			{X: x, Y: 0}, {X: x, Y: 1}, {X: x + 1, Y: 1}, {X: x + 1, Y: 0}, {X: x, Y: 0},
		}}))
		n := w.Write(&poly)
		w.WriteAttribute(int(n), 0, name)
	}
	w.Close()
	return path
}

func TestGeojoinCommand_Execute(t *testing.T) {
	crime, census := writeInputs(t)
	boundary := writeBoundaries(t)
	outPath := filepath.Join(t.TempDir(), "map", "rates.geojson")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{
		"geojoin",
		"--crime", crime,
		"--census", census,
		"--boundary", boundary,
		"--bins", "1,2.5",
		"--geojson", outPath,
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Wrote 3 features")
	assert.Contains(t, buf.String(), "(1 communities without a boundary)")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Features, 3)

	assert.Equal(t, ">= 2.5", doc.Features[0].Properties["class"])
	assert.Equal(t, "1 - 2.5", doc.Features[1].Properties["class"])
	assert.Equal(t, "no_data", doc.Features[2].Properties["class"])
	assert.Nil(t, doc.Features[2].Properties["per100"])
}
