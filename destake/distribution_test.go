package destake

import (
	"math/rand"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destake/go-destake/metrics"
	"gonum.org/v1/gonum/floats"
)

// TestGenerateStakesUniform checks the even split.
func TestGenerateStakesUniform(t *testing.T) {
	stakes, err := GenerateStakes(4, 1000, DistUniform, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{250, 250, 250, 250}, stakes)
}

// TestGenerateStakesGini checks the Lorenz construction: exact volume, and
// an achieved coefficient tracking the target (the construction lands at
// target*(n-1)/n, so it converges from below as n grows).
func TestGenerateStakesGini(t *testing.T) {
	const n = 200
	const volume = 10000.0
	for _, target := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		stakes, err := GenerateStakes(n, volume, DistGini, target, nil)
		require.NoError(t, err)
		require.Len(t, stakes, n)

		assert.InDelta(t, volume, floats.Sum(stakes), 1e-6, "target %v", target)
		assert.InDelta(t, target*(n-1)/n, metrics.Gini(stakes), 1e-9, "target %v", target)
	}
}

// TestGenerateStakesGiniExtremes pins the degenerate targets: 0 is a
// uniform ledger, 1 hands everything to the last peer.
func TestGenerateStakesGiniExtremes(t *testing.T) {
	flat, err := GenerateStakes(10, 1000, DistGini, 0, nil)
	require.NoError(t, err)
	for _, s := range flat {
		assert.InDelta(t, 100, s, 1e-9)
	}

	monopoly, err := GenerateStakes(10, 1000, DistGini, 1, nil)
	require.NoError(t, err)
	for _, s := range monopoly[:9] {
		assert.InDelta(t, 0, s, 1e-9)
	}
	assert.InDelta(t, 1000, monopoly[9], 1e-9)
}

// TestGenerateStakesGiniOutOfRange verifies an out-of-range target is
// replaced by the fallback instead of failing the run.
func TestGenerateStakesGiniOutOfRange(t *testing.T) {
	sanitized, err := GenerateStakes(50, 1000, DistGini, -1, nil)
	require.NoError(t, err)
	want, err := GenerateStakes(50, 1000, DistGini, fallbackGini, nil)
	require.NoError(t, err)
	assert.Equal(t, want, sanitized)
}

// TestGenerateStakesRandom checks the cut-point split: exact volume,
// non-negative stakes, reproducible under a fixed seed.
func TestGenerateStakesRandom(t *testing.T) {
	gen := func(seed int64) []float64 {
		rng := rand.New(rand.NewSource(seed))
		stakes, err := GenerateStakes(500, 2500, DistRandom, 0, rng)
		require.NoError(t, err)
		return stakes
	}

	stakes := gen(11)
	require.Len(t, stakes, 500)
	assert.InDelta(t, 2500, floats.Sum(stakes), 1e-6)
	for _, s := range stakes {
		assert.GreaterOrEqual(t, s, 0.0)
	}

	assert.Equal(t, stakes, gen(11), "same seed must reproduce the vector")
	assert.NotEqual(t, stakes, gen(12), "different seeds should differ")
}

// TestGenerateStakesSinglePeer verifies a lone peer takes the whole volume
// under every shape.
func TestGenerateStakesSinglePeer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, shape := range []Distribution{DistUniform, DistGini, DistRandom} {
		stakes, err := GenerateStakes(1, 777, shape, 0.5, rng)
		require.NoError(t, err, shape.String())
		assert.Equal(t, []float64{777}, stakes, shape.String())
	}
}

// TestGenerateStakesErrors covers the invalid peer counts and shapes.
func TestGenerateStakesErrors(t *testing.T) {
	_, err := GenerateStakes(0, 1000, DistUniform, 0, nil)
	assert.Error(t, err)
	_, err = GenerateStakes(-3, 1000, DistRandom, 0, nil)
	assert.Error(t, err)
	_, err = GenerateStakes(10, 1000, Distribution(42), 0, nil)
	assert.Error(t, err)
}

// TestRewardSchedules pins both reward helpers.
func TestRewardSchedules(t *testing.T) {
	assert.Equal(t, 10.0, ConstantReward(1000, 100))

	// Epoch 0 matches the constant schedule; the ramp then grows linearly
	// up to one extra budget share at the final epoch.
	assert.Equal(t, 10.0, DynamicReward(1000, 100, 0))
	assert.Equal(t, 510.0, DynamicReward(1000, 100, 50))
	assert.Equal(t, 1000.0, DynamicReward(1000, 100, 99))

	prev := DynamicReward(1000, 100, 0)
	for epoch := idx.Epoch(1); epoch < 100; epoch++ {
		cur := DynamicReward(1000, 100, epoch)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}
