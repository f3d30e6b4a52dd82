package consensus

import (
	"math"
	"math/rand"

	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/utils/sampling"
)

// Blend targets of the feedback control. When the ledger is more
// concentrated than the set point, t is driven to 0.5, an even mix of the
// opposite-weighted and weighted curves. When it is more equal, t is driven
// to 1.5, deliberately extrapolating past the weighted curve so stake
// advantage is amplified until concentration recovers.
const (
	equalizeDrive    = 0.5
	concentrateDrive = 1.5
)

// drive returns the blend value t is steered toward for a measured Gini g
// against the set point theta.
func drive(g, theta float64) float64 {
	if g > theta {
		return equalizeDrive
	}
	return concentrateDrive
}

// GiniStabilized blends opposite-weighted and weighted selection under
// feedback control. The blend parameter t moves between the two drive
// values; the step size of each move is shaped by the configured smoothing
// and scaled by the measured distance to the set point.
//
// The simulation loop calls Pick with the current t and then Observe with
// the Gini coefficient measured for the same epoch; t is never reset
// mid-run.
type GiniStabilized struct {
	theta float64           // Gini set point
	rate  float64           // feedback gain k
	shape destake.Smoothing // step-size shape
	t     float64           // current blend, within [0.5, 1.5]
}

// NewGiniStabilized builds the stabilized selector with t initialized from
// the Gini coefficient of the initial ledger.
func NewGiniStabilized(theta, rate float64, shape destake.Smoothing, initialGini float64) *GiniStabilized {
	return &GiniStabilized{
		theta: theta,
		rate:  rate,
		shape: shape,
		t:     drive(initialGini, theta),
	}
}

// Pick draws a position from the blend of the opposite-weighted and
// weighted cumulative curves at the current t. A zero-total stake vector
// falls back to a uniform draw; all-equal stakes give the opposite side a
// zero total, in which case its curve degrades to the uniform one.
func (s *GiniStabilized) Pick(stakes []float64, rng *rand.Rand) (int, error) {
	if len(stakes) == 0 {
		return 0, ErrNoPeers
	}
	weightedCDF, ok := sampling.CDF(stakes)
	if !ok {
		return rng.Intn(len(stakes)), nil
	}
	oppositeCDF, ok := sampling.CDF(oppositeWeights(stakes))
	if !ok {
		oppositeCDF = sampling.UniformCDF(len(stakes))
	}
	blended, err := sampling.LerpSlice(oppositeCDF, weightedCDF, s.t)
	if err != nil {
		return 0, err
	}
	return sampling.Search(blended, rng.Float64()), nil
}

// Observe advances the control after an epoch measured at Gini g:
// t moves toward drive(g, theta) by a step shaped by the smoothing rule.
func (s *GiniStabilized) Observe(g float64) {
	dist := math.Abs(g - s.theta)

	var step float64
	switch s.shape {
	case destake.SmoothConstant:
		step = s.rate
	case destake.SmoothLinear:
		step = s.rate * dist
	case destake.SmoothQuadratic:
		step = s.rate * dist * dist
	default: // SmoothSqrt and anything unmapped
		step = s.rate * math.Sqrt(dist)
	}

	s.t = sampling.Lerp(s.t, drive(g, s.theta), step)
}

// T exposes the current blend parameter.
func (s *GiniStabilized) T() float64 {
	return s.t
}
