package destake

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"gonum.org/v1/gonum/floats"
)

// fallbackGini replaces an out-of-range Gini target when shaping the initial
// distribution, instead of aborting the run.
const fallbackGini = 0.3

// GenerateStakes synthesizes the initial stake vector: n peers sharing the
// given volume under the requested shape.
//
// DistGini ignores rng (the construction is deterministic); the other shapes
// ignore targetGini. n must be positive. A single peer always receives the
// whole volume regardless of shape.
func GenerateStakes(n int, volume float64, shape Distribution, targetGini float64, rng *rand.Rand) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot distribute stakes across %d peers", n)
	}
	switch shape {
	case DistUniform:
		return uniformStakes(n, volume), nil
	case DistGini:
		if targetGini < 0 || targetGini > 1 {
			log.Warn("Gini target out of range, falling back", "target", targetGini, "fallback", fallbackGini)
			targetGini = fallbackGini
		}
		return giniStakes(n, volume, targetGini), nil
	case DistRandom:
		return randomStakes(n, volume, rng), nil
	default:
		return nil, fmt.Errorf("unknown distribution %s", shape)
	}
}

// uniformStakes gives every peer the same share of the volume.
func uniformStakes(n int, volume float64) []float64 {
	stakes := make([]float64, n)
	for i := range stakes {
		stakes[i] = volume / float64(n)
	}
	return stakes
}

// giniStakes shapes the vector to the target Gini coefficient with a
// two-segment Lorenz curve: a straight line from the origin to the point
// ((n-1)/n, prop), then a jump to (1, 1) carried by the last peer.
//
// The line's endpoint height follows from the target: the area between the
// curve and the diagonal scales linearly with the target over its feasible
// range, whose maximum (n-1)/2 corresponds to one peer holding everything.
// A target of 0 degenerates to the diagonal (uniform stakes), a target of 1
// to a monopoly of the last peer.
func giniStakes(n int, volume float64, targetGini float64) []float64 {
	if n == 1 {
		return []float64{volume}
	}

	nf := float64(n)
	maxReach := (nf - 1) / 2
	reach := targetGini * maxReach
	prop := ((nf - 1) / nf) * ((maxReach - reach) / maxReach)
	slope := prop / ((nf - 1) / nf)

	// Cumulative stake fractions at each peer boundary; the last peer
	// closes the curve at exactly 1.0, so the vector sums to the volume.
	cumulative := make([]float64, n)
	for i := 1; i < n; i++ {
		cumulative[i-1] = slope * (float64(i) / nf) * volume
	}
	cumulative[n-1] = volume

	stakes := make([]float64, n)
	stakes[0] = cumulative[0]
	for i := 1; i < n; i++ {
		stakes[i] = cumulative[i] - cumulative[i-1]
	}
	return stakes
}

// randomStakes splits the volume at n-1 uniformly random cut points, so the
// stakes are the segment lengths. Numeric dust from the subtraction chain is
// clamped at zero and the vector is rescaled to sum to the volume exactly.
func randomStakes(n int, volume float64, rng *rand.Rand) []float64 {
	if n == 1 {
		return []float64{volume}
	}

	cuts := make([]float64, n-1)
	for i := range cuts {
		cuts[i] = rng.Float64() * volume
	}
	sort.Float64s(cuts)

	stakes := make([]float64, n)
	stakes[0] = cuts[0]
	for i := 1; i < n-1; i++ {
		stakes[i] = cuts[i] - cuts[i-1]
	}
	stakes[n-1] = volume - cuts[n-2]

	for i, s := range stakes {
		if s < 0 {
			stakes[i] = 0
		}
	}

	total := floats.Sum(stakes)
	if total <= 0 {
		// Degenerate volume (zero or negative): an even split is the only
		// sensible answer.
		return uniformStakes(n, volume)
	}
	floats.Scale(volume/total, stakes)
	return stakes
}
