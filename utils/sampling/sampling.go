package sampling

// This package implements the shared stochastic machinery behind validator
// selection and population churn.
//
// Use Case:
// - Turning a stake vector into a normalized cumulative distribution (CDF).
// - Drawing a position from that CDF with a single uniform roll (inverse-CDF sampling).
// - Blending two CDFs (linear interpolation) for feedback-controlled selection.
// - Sampling distinct positions, e.g. the initially corrupted validators.
//
// Every function that consumes randomness takes an explicit *rand.Rand so callers
// stay reproducible under a fixed seed. Nothing here touches a global RNG.

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// CDF builds the normalized cumulative distribution of the given weights.
// The returned slice is nondecreasing and ends at 1.0.
//
// The second return value reports whether the distribution is usable: it is
// false when the weights are empty or their total is not positive. In that
// case callers typically substitute UniformCDF or a plain uniform draw.
func CDF(weights []float64) ([]float64, bool) {
	total := floats.Sum(weights)
	if len(weights) == 0 || total <= 0 {
		return nil, false
	}
	cdf := make([]float64, len(weights))
	floats.CumSum(cdf, weights)
	floats.Scale(1/total, cdf)
	return cdf, true
}

// UniformCDF returns the cumulative distribution of n equal weights:
// (i+1)/n for each position i. It returns nil for n <= 0.
func UniformCDF(n int) []float64 {
	if n <= 0 {
		return nil
	}
	cdf := make([]float64, n)
	for i := range cdf {
		cdf[i] = float64(i+1) / float64(n)
	}
	return cdf
}

// Search returns the first position whose cumulative value reaches r.
// The scan is deliberately linear: blended selection curves may dip locally
// (extrapolated blends are not monotone), and the draw must land on the
// first crossing, not an arbitrary one. If no entry reaches r, the last
// position is returned, so a draw never falls off the end.
func Search(cdf []float64, r float64) int {
	for i, c := range cdf {
		if c >= r {
			return i
		}
	}
	return len(cdf) - 1
}

// Pick draws a position proportionally to the given weights using a single
// uniform roll against the weights' CDF.
//
// The second return value is false when the weights cannot form a
// distribution (empty or non-positive total); the draw is then left to the
// caller, which decides the fallback (an error, or a uniform position).
func Pick(weights []float64, rng *rand.Rand) (int, bool) {
	cdf, ok := CDF(weights)
	if !ok {
		return 0, false
	}
	return Search(cdf, rng.Float64()), true
}

// Lerp linearly interpolates between a and b: t=0 yields a, t=1 yields b.
// t is not clamped; callers control the range.
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// LerpSlice interpolates two equal-length vectors elementwise.
// Blending two CDFs with t in [0,1] yields another valid CDF, which is how
// the stabilized selector trades off between opposing weightings.
func LerpSlice(a, b []float64, t float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("sampling: length mismatch %d != %d", len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = Lerp(a[i], b[i], t)
	}
	return out, nil
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Indices samples k distinct positions from [0, n) uniformly, in random order.
// It errors when the request cannot be satisfied (k < 0 or k > n).
func Indices(rng *rand.Rand, n, k int) ([]int, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("sampling: cannot sample %d distinct positions from %d", k, n)
	}
	// A prefix of a random permutation is a uniform k-subset.
	return rng.Perm(n)[:k], nil
}
