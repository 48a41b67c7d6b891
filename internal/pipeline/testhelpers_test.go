package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/crimerate-cli/internal/model"
)

// crimeCSV has a four-month window; X matches census only after case
// folding, Unknown Park has no census row, Tiny and Ghost have degenerate
// populations.
const crimeCSV = `Community,Category,2017/01,2017/02,2017/03,2017/04
X,ASSAULT,2,3,0,
X,THEFT,5,,10,
Beltline,ASSAULT,100,200,300,400
Downtown,THEFT,50,50,50,50
Mission,ASSAULT,10,10,10,10
Unknown Park,THEFT,1,1,1,1
Tiny,ASSAULT,1,2,3,4
Ghost,THEFT,0,0,0,0
`

const censusCSV = `Community,2012,2013,2014,2015,2016
x,100,100,100,100,100
BELTLINE ,20000,21000,22000,23000,24000
Downtown,2000,2000,2000,2000,2000
Mission,1000,1000,1000,1000,1000
Tiny,1,1,1,1,1
Ghost,0,0,0,0,0
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixtureOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		CrimePath:  writeFile(t, "crime.csv", crimeCSV),
		CensusPath: writeFile(t, "census.csv", censusCSV),
		Classify:   DefaultClassifyOptions(),
	}
}

func hasMissing(table *model.CrimeTable) bool {
	for _, r := range table.Rows {
		for _, c := range r.Counts {
			if c.Missing {
				return true
			}
		}
	}
	return false
}

func month(y int, m time.Month) model.Month {
	return model.NewMonth(y, m)
}

func findTotal(t *testing.T, totals []model.CommunityTotal, community string) model.CommunityTotal {
	t.Helper()
	for _, tot := range totals {
		if tot.Community == community {
			return tot
		}
	}
	require.Failf(t, "community not found", "%q", community)
	return model.CommunityTotal{}
}

func names(totals []model.CommunityTotal) []string {
	out := make([]string, len(totals))
	for i, t := range totals {
		out[i] = t.Community
	}
	return out
}
