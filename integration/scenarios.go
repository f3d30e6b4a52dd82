// Package integration bundles named simulation scenarios. A scenario packs a
// complete destake.Params profile under a short identifier, so runs and
// benchmarks can be reproduced from the command line without retyping a
// dozen knobs.
//
// Usage:
//
//	s := integration.BaselineScenario()          // the reference profile
//	s, err := integration.GetScenarioByName("churn") // CLI-driven lookup
//	integration.ApplyScenario(&cfg.Params, s)    // merge into a launcher config
//
// Scenario parameters are starting points. The launcher applies them before
// config files and flag overrides, so any knob can still be adjusted per run.
package integration

import (
	"fmt"
	"strings"

	"github.com/destake/go-destake/destake"
)

// Scenario is a named, self-contained simulation profile.
type Scenario struct {
	// Name is the identifier accepted by --scenario and shown in dumps.
	Name string

	// Description is a one-line summary for listings.
	Description string

	// Params is the complete parameter set of the profile.
	Params destake.Params
}

// stabilizedEmission is the total stake minted across a stabilized run. The
// per-epoch reward is derived from it, so stretching the horizon dilutes the
// reward instead of inflating the economy.
const stabilizedEmission = 500000.0

// BaselineScenario returns the reference profile: classic weighted selection
// over a Gini-shaped thousand-peer ledger with light churn and a harsh
// penalty regime.
//
// Use cases:
//   - Reproducing the headline concentration curves
//   - Serving as the control group in selector comparisons
//
// Trade-offs:
//   - Weighted selection concentrates stake over long horizons
//   - Harsh penalties thin the corrupted cohort early in the run
func BaselineScenario() Scenario {
	return Scenario{
		Name:        "baseline",
		Description: "weighted selection over a Gini-shaped ledger, light churn",
		Params:      destake.DefaultParams(),
	}
}

// UniformStartScenario returns the first comparison profile: every peer
// starts with the same stake, churn and penalties are gentle, and joiners
// receive the current average.
//
// Use cases:
//   - Measuring how fast each selector breaks a perfectly equal start
//   - Isolating selection pressure from churn effects
//
// Trade-offs:
//   - The gentle penalty regime lets corrupted peers survive most of the run
//   - Average-stake joiners keep the distribution artificially compressed
func UniformStartScenario() Scenario {
	p := destake.DefaultParams()
	p.Epochs = 20000 // equal starts separate within a shorter horizon
	p.InitialDist = destake.DistUniform
	p.FailP = 0.1
	p.JoinP = 0.0005
	p.LeaveP = 0.0005
	p.JoinStake = destake.JoinAverage
	p.Penalty = 0.1
	p.Reward = 20.0
	return Scenario{
		Name:        "uniform",
		Description: "equal stakes at start, gentle churn and penalties",
		Params:      p,
	}
}

// HeavyChurnScenario returns the second comparison profile: a ten-thousand-peer
// ledger split at random cut points with strong churn and a large corrupted
// cohort. This is the heaviest profile the comparison harness runs.
//
// Use cases:
//   - Stress-testing selector behavior under constant membership turnover
//   - Benchmarking run times at realistic network scale
//
// Trade-offs:
//   - Runs take noticeably longer than the other profiles
//   - High churn adds variance, so more runs are needed for stable statistics
func HeavyChurnScenario() Scenario {
	return Scenario{
		Name:        "churn",
		Description: "10000 peers, strong churn, 500 corrupted",
		Params:      destake.BenchParams(),
	}
}

// AdversarialScenario returns the third comparison profile: a Gini-shaped
// start with a corrupted cohort two and a half times the baseline, moderate
// failure odds and joiners entering at the current maximum stake.
//
// Use cases:
//   - Probing how selectors cope with wealthy hostile joiners
//   - Comparing cohort survival under a moderate penalty regime
//
// Trade-offs:
//   - Max-stake joiners can dominate the ledger if churn is unlucky
//   - A moderate penalty leaves corrupted wealth in circulation for longer
func AdversarialScenario() Scenario {
	p := destake.DefaultParams()
	p.Epochs = 20000
	p.Corrupted = 50
	p.FailP = 0.3
	p.JoinStake = destake.JoinMax // every joiner matches the richest peer
	p.Penalty = 0.3
	p.Reward = 20.0
	return Scenario{
		Name:        "adversarial",
		Description: "Gini start, 50 corrupted, max-stake joiners",
		Params:      p,
	}
}

// StabilizedScenario returns the feedback-control profile: Gini-stabilized
// selection steering toward a 0.3 set point with linear smoothing, over a
// large randomly split ledger. The per-epoch reward is an even slice of a
// fixed emission budget rather than a hand-picked constant.
//
// Use cases:
//   - Demonstrating the controller holding concentration at the set point
//   - Contrasting controlled and uncontrolled selection on one ledger shape
//
// Trade-offs:
//   - Blending toward the opposite distribution costs extra work per epoch
//   - The controller needs hundreds of epochs before the set point holds
func StabilizedScenario() Scenario {
	p := destake.DefaultParams()
	p.Algo = destake.AlgoGiniStabilized
	p.Epochs = 25000
	p.Volume = 5000.0
	p.InitialDist = destake.DistRandom
	p.Peers = 10000
	p.Corrupted = 50
	p.Theta = 0.3
	p.Smoothing = destake.SmoothLinear
	p.Reward = destake.ConstantReward(stabilizedEmission, p.Epochs)
	return Scenario{
		Name:        "stabilized",
		Description: "Gini-stabilized selection steering toward theta 0.3",
		Params:      p,
	}
}

// All returns every scenario in display order.
func All() []Scenario {
	return []Scenario{
		BaselineScenario(),
		UniformStartScenario(),
		HeavyChurnScenario(),
		AdversarialScenario(),
		StabilizedScenario(),
	}
}

// Names returns the scenario identifiers in display order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// GetScenarioByName looks up a scenario by its identifier. This helper backs
// CLI flags like --scenario=churn.
//
// Example:
//
//	s, err := integration.GetScenarioByName("adversarial")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetScenarioByName(name string) (Scenario, error) {
	for _, s := range All() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario: %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// ApplyScenario overwrites the target parameters with the scenario's
// profile. The profile is deep-copied, so later per-run overrides on the
// target never leak back into the named scenario.
func ApplyScenario(target *destake.Params, s Scenario) {
	*target = s.Params.Copy()
}
