package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceStakes is the worked example used throughout: total 1500,
// hand-computed Gini 0.2667, HHI 550000/1500², 51% Nakamoto 2.
var referenceStakes = []float64{100, 200, 300, 400, 500}

// TestGiniKnownValues pins Gini against hand-computed vectors.
func TestGiniKnownValues(t *testing.T) {
	tests := []struct {
		name   string
		stakes []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"zero total", []float64{0, 0, 0}, 0},
		{"single holder", []float64{42}, 0},
		{"uniform", []float64{10, 10, 10, 10}, 0},
		{"reference", referenceStakes, 0.26666666666666666},
		// With one holder owning everything among n, Gini is 1 - 1/n.
		{"monopoly of 10", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1000}, 0.9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Gini(tc.stakes), 1e-12)
		})
	}
}

// TestGiniDoesNotMutate ensures the sort happens on a copy.
func TestGiniDoesNotMutate(t *testing.T) {
	stakes := []float64{5, 1, 3}
	Gini(stakes)
	assert.Equal(t, []float64{5, 1, 3}, stakes)
}

// TestGiniOrderInvariant verifies the measure ignores input order.
func TestGiniOrderInvariant(t *testing.T) {
	shuffled := []float64{300, 100, 500, 400, 200}
	assert.InDelta(t, Gini(referenceStakes), Gini(shuffled), 1e-12)
}

// TestNakamotoKnownValues pins the 51% coefficient: 400+500=900 covers
// 0.51*1500=765 with two holders.
func TestNakamotoKnownValues(t *testing.T) {
	tests := []struct {
		name   string
		stakes []float64
		want   int
	}{
		{"empty", nil, 0},
		{"zero total", []float64{0, 0}, 0},
		{"single holder", []float64{42}, 1},
		{"reference", referenceStakes, 2},
		{"uniform hundred", uniform(100, 10), 51},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Nakamoto(tc.stakes); got != tc.want {
				t.Fatalf("Nakamoto(%s) = %d, want %d", tc.name, got, tc.want)
			}
		})
	}
}

// TestNakamotoThresholdMonotonic checks that lowering the threshold never
// raises the coefficient.
func TestNakamotoThresholdMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	stakes := make([]float64, 200)
	for i := range stakes {
		stakes[i] = rng.Float64() * 1000
	}
	thresholds := []float64{0.75, 0.66, 0.51, 0.50, 0.33, 0.25}
	prev := NakamotoAt(stakes, thresholds[0])
	for _, th := range thresholds[1:] {
		cur := NakamotoAt(stakes, th)
		assert.LessOrEqual(t, cur, prev, "threshold %v", th)
		prev = cur
	}
}

// TestNakamotoAnalysis pins the full threshold ladder for the reference
// vector and the empty-input shape.
func TestNakamotoAnalysis(t *testing.T) {
	want := map[string]int{
		"25%": 1,
		"33%": 1,
		"50%": 2,
		"51%": 2,
		"66%": 3,
		"75%": 3,
	}
	assert.Equal(t, want, NakamotoAnalysis(referenceStakes))
	assert.Empty(t, NakamotoAnalysis(nil))
}

// TestHHIKnownValues pins HHI against the closed form sum(share²).
func TestHHIKnownValues(t *testing.T) {
	assert.InDelta(t, 550000.0/(1500.0*1500.0), HHI(referenceStakes), 1e-12)
	assert.InDelta(t, 0.25, HHI([]float64{10, 10, 10, 10}), 1e-12)
	assert.InDelta(t, 1.0, HHI([]float64{999}), 1e-12)
	assert.Zero(t, HHI(nil))
	assert.Zero(t, HHI([]float64{0, 0}))
}

// TestHHIFiltersJunk verifies non-positive and NaN entries are dropped
// before the shares are formed.
func TestHHIFiltersJunk(t *testing.T) {
	clean := []float64{100, 300}
	dirty := []float64{100, -50, math.NaN(), 0, 300}
	assert.InDelta(t, HHI(clean), HHI(dirty), 1e-12)
	assert.InDelta(t, HHINormalized(clean), HHINormalized(dirty), 1e-12)
}

// TestHHINormalized verifies the [0,1] rescaling: uniform measures 0,
// monopoly measures 1, singleton keeps its raw value.
func TestHHINormalized(t *testing.T) {
	assert.InDelta(t, 0.0, HHINormalized([]float64{10, 10, 10, 10}), 1e-12)
	assert.InDelta(t, 1.0, HHINormalized([]float64{0, 0, 1000}), 1e-12)
	assert.InDelta(t, 1.0, HHINormalized([]float64{42}), 1e-12)

	// Raw and normalized agree on ordering for the reference vector.
	raw := HHI(referenceStakes)
	norm := HHINormalized(referenceStakes)
	require.Greater(t, raw, 0.2)
	assert.InDelta(t, (raw-0.2)/0.8, norm, 1e-12)
}

// TestDecentralizationScore pins the (n-nc)/(n-1) mapping.
func TestDecentralizationScore(t *testing.T) {
	assert.Zero(t, DecentralizationScore(nil))
	assert.Zero(t, DecentralizationScore([]float64{42}))

	// Reference vector: n=5, nc=2, score (5-2)/4.
	assert.InDelta(t, 0.75, DecentralizationScore(referenceStakes), 1e-12)

	// Uniform 100: nc=51, score (100-51)/99.
	assert.InDelta(t, 49.0/99.0, DecentralizationScore(uniform(100, 10)), 1e-12)

	// Monopoly: nc=1, so the normalized value maxes out.
	assert.InDelta(t, 1.0, DecentralizationScore([]float64{0, 1000}), 1e-12)
}

// uniform builds a vector of n equal stakes.
func uniform(n int, stake float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = stake
	}
	return out
}
