package destake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAlgorithmRoundTrip checks that every algorithm survives
// String -> Parse, including case-insensitive input.
func TestAlgorithmRoundTrip(t *testing.T) {
	all := []Algorithm{
		AlgoWeighted, AlgoOppositeWeighted, AlgoGiniStabilized,
		AlgoLogWeighted, AlgoDESW, AlgoSRSW, AlgoRandom,
	}
	for _, algo := range all {
		parsed, err := ParseAlgorithm(algo.String())
		require.NoError(t, err, algo.String())
		assert.Equal(t, algo, parsed)
	}

	parsed, err := ParseAlgorithm("  Gini_Stabilized ")
	require.NoError(t, err)
	assert.Equal(t, AlgoGiniStabilized, parsed)

	_, err = ParseAlgorithm("quadratic_stake")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "weighted", "error should list valid names")
}

// TestDistributionRoundTrip checks distribution name round-trips.
func TestDistributionRoundTrip(t *testing.T) {
	for _, dist := range []Distribution{DistUniform, DistGini, DistRandom} {
		parsed, err := ParseDistribution(dist.String())
		require.NoError(t, err, dist.String())
		assert.Equal(t, dist, parsed)
	}
	_, err := ParseDistribution("pareto")
	assert.Error(t, err)
}

// TestJoinPolicyRoundTrip checks join policy name round-trips.
func TestJoinPolicyRoundTrip(t *testing.T) {
	for _, policy := range []JoinPolicy{JoinMax, JoinMin, JoinRandom, JoinAverage} {
		parsed, err := ParseJoinPolicy(policy.String())
		require.NoError(t, err, policy.String())
		assert.Equal(t, policy, parsed)
	}
	_, err := ParseJoinPolicy("median")
	assert.Error(t, err)
}

// TestSmoothingRoundTrip checks smoothing shape name round-trips.
func TestSmoothingRoundTrip(t *testing.T) {
	for _, shape := range []Smoothing{SmoothConstant, SmoothLinear, SmoothQuadratic, SmoothSqrt} {
		parsed, err := ParseSmoothing(shape.String())
		require.NoError(t, err, shape.String())
		assert.Equal(t, shape, parsed)
	}
	_, err := ParseSmoothing("cubic")
	assert.Error(t, err)
}

// TestEnumsMarshalAsNames verifies the JSON form carries names, not ints,
// so reports and configs stay readable.
func TestEnumsMarshalAsNames(t *testing.T) {
	doc, err := json.Marshal(struct {
		Algo      Algorithm
		Dist      Distribution
		Policy    JoinPolicy
		Smoothing Smoothing
	}{AlgoDESW, DistGini, JoinAverage, SmoothSqrt})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Algo":"desw","Dist":"gini","Policy":"average","Smoothing":"sqrt"}`, string(doc))

	var back struct{ Algo Algorithm }
	require.NoError(t, json.Unmarshal([]byte(`{"Algo":"srsw"}`), &back))
	assert.Equal(t, AlgoSRSW, back.Algo)
}

// TestUnknownEnumString pins the fallback rendering for values outside the
// defined range, which only ever appear through programming errors.
func TestUnknownEnumString(t *testing.T) {
	assert.Equal(t, "algorithm(99)", Algorithm(99).String())
	assert.Equal(t, "distribution(-1)", Distribution(-1).String())
}
