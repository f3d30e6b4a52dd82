package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destake/go-destake/destake"
)

func TestParseSchedule(t *testing.T) {
	joins, err := parseSchedule([]string{"100:50.5", " 200 : 10 "})
	require.NoError(t, err)
	require.Len(t, joins, 2)
	assert.Equal(t, destake.ScheduledJoin{Epoch: 100, Stake: 50.5}, joins[0])
	assert.Equal(t, destake.ScheduledJoin{Epoch: 200, Stake: 10}, joins[1])

	bad := []string{
		"abc",          // no separator
		"x:5",          // epoch not a number
		"5:x",          // stake not a number
		"-1:5",         // epoch negative
		"4294967296:1", // epoch beyond 32 bits
	}
	for _, entry := range bad {
		_, err := parseSchedule([]string{entry})
		assert.Error(t, err, "entry %q", entry)
		assert.Contains(t, err.Error(), "scheduled join")
	}
}

func TestParseAlgorithms(t *testing.T) {
	algos, err := parseAlgorithms([]string{"weighted", "DESW"})
	require.NoError(t, err)
	assert.Equal(t, []destake.Algorithm{destake.AlgoWeighted, destake.AlgoDESW}, algos)

	_, err = parseAlgorithms([]string{"weighted", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown algorithm")
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Equal(t, []string{"a"}, splitCSV("a"))
	assert.Equal(t, []string{"a", "b", "c"}, splitCSV("a, b ,c"))
}

func TestVerbosityLevel(t *testing.T) {
	cases := []struct {
		v    int
		want string
	}{
		{-1, "fatal"},
		{0, "fatal"},
		{1, "error"},
		{2, "warn"},
		{3, "info"},
		{4, "debug"},
		{5, "trace"},
		{9, "trace"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, verbosityLevel(c.v), "verbosity %d", c.v)
	}
}

func TestRunPrefix(t *testing.T) {
	cfg := defaultConfig()
	cfg.Params.Algo = destake.AlgoSRSW
	assert.Equal(t, "srsw", runPrefix(&cfg))

	cfg.Scenario = "churn"
	assert.Equal(t, "churn", runPrefix(&cfg))
}

func TestSummaryFileName(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "benchmark.json", summaryFileName(&cfg))

	cfg.Scenario = "churn"
	assert.Equal(t, "benchmark_churn.json", summaryFileName(&cfg))
}
