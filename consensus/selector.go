// Package consensus implements the validator selection rules.
//
// A Selector draws the producing position for one epoch from the current
// stake vector. All rules share the same skeleton: derive per-peer weights
// from the stakes, normalize them into a cumulative curve and take the first
// position whose cumulative value reaches a single uniform roll. They differ
// only in the weight derivation, which is what decides whether wealth
// concentrates, disperses or oscillates over a long run.
//
// Two degenerate situations are handled uniformly across rules: an empty
// ledger cannot produce and yields ErrNoPeers, while a ledger whose weights
// sum to zero (an all-zero stake vector, or all-equal stakes under the
// opposite rule) falls back to a uniformly random position rather than
// failing the epoch.
package consensus

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/metrics"
	"github.com/destake/go-destake/utils/sampling"
)

// ErrNoPeers is returned when selection is attempted on an empty ledger.
var ErrNoPeers = errors.New("no peers to select from")

// logWeightFloor protects zero stakes under the log-weighted rule, so every
// peer keeps a nonzero chance.
const logWeightFloor = 1e-8

// Selector draws the producing position for one epoch.
type Selector interface {
	// Pick returns the position of the selected validator within stakes.
	Pick(stakes []float64, rng *rand.Rand) (int, error)
}

// New builds the selector for the configured algorithm. The stabilized rule
// is the only stateful one; its feedback control starts from the Gini
// coefficient of the initial ledger. The selector is constructed once per
// run and reused every epoch.
func New(p *destake.Params, initialGini float64) (Selector, error) {
	switch p.Algo {
	case destake.AlgoWeighted:
		return weighted{}, nil
	case destake.AlgoOppositeWeighted:
		return opposite{}, nil
	case destake.AlgoGiniStabilized:
		return NewGiniStabilized(p.Theta, p.SmoothingRate, p.Smoothing, initialGini), nil
	case destake.AlgoLogWeighted:
		return logWeighted{}, nil
	case destake.AlgoDESW:
		return desw{}, nil
	case destake.AlgoSRSW:
		return srsw{}, nil
	case destake.AlgoRandom:
		return uniform{}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %s", p.Algo)
	}
}

// pickByWeight draws proportionally to the weights, falling back to a
// uniform position when they cannot form a distribution.
func pickByWeight(n int, weights []float64, rng *rand.Rand) int {
	if pos, ok := sampling.Pick(weights, rng); ok {
		return pos
	}
	return rng.Intn(n)
}

// oppositeWeights turns each stake into its distance from the richest peer,
// so the poorest carry the largest weight. The richest peer itself weighs
// zero. Callers guarantee a non-empty vector.
func oppositeWeights(stakes []float64) []float64 {
	max := floats.Max(stakes)
	out := make([]float64, len(stakes))
	for i, s := range stakes {
		out[i] = math.Abs(max - s)
	}
	return out
}

// weighted is classic PoS: selection chance proportional to stake.
type weighted struct{}

func (weighted) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	return pickByWeight(len(stakes), stakes, rng), nil
}

// opposite inverts the stake ordering: chance proportional to the distance
// from the richest peer.
type opposite struct{}

func (opposite) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	return pickByWeight(len(stakes), oppositeWeights(stakes), rng), nil
}

// srsw dampens stake advantage with a square root.
type srsw struct{}

func (srsw) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	weights := make([]float64, len(stakes))
	for i, s := range stakes {
		weights[i] = math.Sqrt(s)
	}
	return pickByWeight(len(stakes), weights, rng), nil
}

// logWeighted dampens stake advantage with a floored square root. The name
// is historical; the curve is a square root, the floor merely keeps zero
// stakes selectable.
type logWeighted struct{}

func (logWeighted) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	weights := make([]float64, len(stakes))
	for i, s := range stakes {
		weights[i] = math.Sqrt(math.Max(s, logWeightFloor))
	}
	return pickByWeight(len(stakes), weights, rng), nil
}

// desw raises stakes to a dynamic exponent p = 1 - Gini, clamped to
// [0.2, 0.8] and recomputed every call: the more concentrated the ledger,
// the flatter the weighting becomes.
type desw struct{}

func (desw) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	exponent := sampling.Clamp(1-metrics.Gini(stakes), 0.2, 0.8)
	weights := make([]float64, len(stakes))
	for i, s := range stakes {
		weights[i] = math.Pow(s, exponent)
	}
	return pickByWeight(len(stakes), weights, rng), nil
}

// uniform ignores stake entirely.
type uniform struct{}

func (uniform) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	return rng.Intn(len(stakes)), nil
}
