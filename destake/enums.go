package destake

import (
	"fmt"
	"strings"
)

// Algorithm identifies the consensus weighting rule used to draw the block
// producer each epoch. The zero value is AlgoWeighted, classic
// stake-proportional selection.
type Algorithm int

const (
	// AlgoWeighted draws proportionally to stake (classic PoS selection).
	AlgoWeighted Algorithm = iota

	// AlgoOppositeWeighted draws proportionally to the distance from the
	// richest holder (|max - stake|), favoring the poor side of the ledger.
	AlgoOppositeWeighted

	// AlgoGiniStabilized blends opposite-weighted and weighted selection
	// under feedback control aimed at a Gini set point.
	AlgoGiniStabilized

	// AlgoLogWeighted draws proportionally to sqrt(stake) with a small floor
	// protecting zero stakes. The name is historical; the damping curve is a
	// square root, not a logarithm.
	AlgoLogWeighted

	// AlgoDESW draws proportionally to stake^p where the exponent p shrinks
	// as measured concentration grows (dynamic-exponent stake weighting).
	AlgoDESW

	// AlgoSRSW draws proportionally to sqrt(stake) (square-root stake
	// weighting).
	AlgoSRSW

	// AlgoRandom ignores stake entirely and draws uniformly.
	AlgoRandom
)

// algorithmNames holds the canonical configuration names, indexed by the
// Algorithm value.
var algorithmNames = []string{
	"weighted",
	"opposite_weighted",
	"gini_stabilized",
	"log_weighted",
	"desw",
	"srsw",
	"random",
}

// String returns the canonical configuration name of the algorithm.
func (a Algorithm) String() string {
	if a >= 0 && int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// MarshalText makes algorithms render as their names in JSON documents.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an algorithm from its canonical name.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm resolves a configuration name (case-insensitive) to an
// Algorithm. Unknown names produce an error listing the valid ones.
func ParseAlgorithm(name string) (Algorithm, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, canonical := range algorithmNames {
		if want == canonical {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm %q, valid algorithms are: %s",
		name, strings.Join(algorithmNames, ", "))
}

// Distribution identifies the shape used to synthesize the initial stake
// vector.
type Distribution int

const (
	// DistUniform assigns every peer the same stake.
	DistUniform Distribution = iota

	// DistGini shapes the vector to hit a target Gini coefficient via a
	// two-segment Lorenz curve.
	DistGini

	// DistRandom splits the volume at uniformly random cut points.
	DistRandom
)

// distributionNames holds the canonical configuration names, indexed by the
// Distribution value.
var distributionNames = []string{
	"uniform",
	"gini",
	"random",
}

// String returns the canonical configuration name of the distribution.
func (d Distribution) String() string {
	if d >= 0 && int(d) < len(distributionNames) {
		return distributionNames[d]
	}
	return fmt.Sprintf("distribution(%d)", int(d))
}

// MarshalText makes distributions render as their names in JSON documents.
func (d Distribution) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a distribution from its canonical name.
func (d *Distribution) UnmarshalText(text []byte) error {
	parsed, err := ParseDistribution(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDistribution resolves a configuration name (case-insensitive) to a
// Distribution.
func ParseDistribution(name string) (Distribution, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, canonical := range distributionNames {
		if want == canonical {
			return Distribution(i), nil
		}
	}
	return 0, fmt.Errorf("unknown distribution %q, valid distributions are: %s",
		name, strings.Join(distributionNames, ", "))
}

// JoinPolicy decides how much stake a freshly joined peer receives, derived
// from the stakes already on the ledger.
type JoinPolicy int

const (
	// JoinMax grants the newcomer the current maximum stake.
	JoinMax JoinPolicy = iota

	// JoinMin grants the newcomer the current minimum stake.
	JoinMin

	// JoinRandom grants the stake of a uniformly chosen existing peer.
	JoinRandom

	// JoinAverage grants the mean stake of the ledger.
	JoinAverage
)

// joinPolicyNames holds the canonical configuration names, indexed by the
// JoinPolicy value.
var joinPolicyNames = []string{
	"max",
	"min",
	"random",
	"average",
}

// String returns the canonical configuration name of the join policy.
func (j JoinPolicy) String() string {
	if j >= 0 && int(j) < len(joinPolicyNames) {
		return joinPolicyNames[j]
	}
	return fmt.Sprintf("join_policy(%d)", int(j))
}

// MarshalText makes join policies render as their names in JSON documents.
func (j JoinPolicy) MarshalText() ([]byte, error) {
	return []byte(j.String()), nil
}

// UnmarshalText parses a join policy from its canonical name.
func (j *JoinPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseJoinPolicy(string(text))
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// ParseJoinPolicy resolves a configuration name (case-insensitive) to a
// JoinPolicy.
func ParseJoinPolicy(name string) (JoinPolicy, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, canonical := range joinPolicyNames {
		if want == canonical {
			return JoinPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown join policy %q, valid policies are: %s",
		name, strings.Join(joinPolicyNames, ", "))
}

// Smoothing identifies the step-size shape of the stabilized selector's
// feedback control.
type Smoothing int

const (
	// SmoothConstant moves the control by a fixed step k each epoch.
	SmoothConstant Smoothing = iota

	// SmoothLinear scales the step with the distance to the set point:
	// k*|gini - theta|.
	SmoothLinear

	// SmoothQuadratic scales the step with the squared distance:
	// k*|gini - theta|^2.
	SmoothQuadratic

	// SmoothSqrt scales the step with the root distance:
	// k*sqrt(|gini - theta|).
	SmoothSqrt
)

// smoothingNames holds the canonical configuration names, indexed by the
// Smoothing value.
var smoothingNames = []string{
	"constant",
	"linear",
	"quadratic",
	"sqrt",
}

// String returns the canonical configuration name of the smoothing shape.
func (s Smoothing) String() string {
	if s >= 0 && int(s) < len(smoothingNames) {
		return smoothingNames[s]
	}
	return fmt.Sprintf("smoothing(%d)", int(s))
}

// MarshalText makes smoothing shapes render as their names in JSON documents.
func (s Smoothing) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a smoothing shape from its canonical name.
func (s *Smoothing) UnmarshalText(text []byte) error {
	parsed, err := ParseSmoothing(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSmoothing resolves a configuration name (case-insensitive) to a
// Smoothing.
func ParseSmoothing(name string) (Smoothing, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, canonical := range smoothingNames {
		if want == canonical {
			return Smoothing(i), nil
		}
	}
	return 0, fmt.Errorf("unknown smoothing %q, valid shapes are: %s",
		name, strings.Join(smoothingNames, ", "))
}
