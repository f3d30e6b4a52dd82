// Package destake defines the parameter model for the stake-concentration
// simulator.
//
// This package provides:
//   - The enumerated knobs: selection Algorithm, initial Distribution,
//     churn JoinPolicy and feedback Smoothing shape
//   - The Params aggregate with validation, deep copy and presets
//   - The initial stake distribution generator
//   - Reward schedule helpers for sizing per-epoch rewards from an
//     emission budget
//
// Params serves as the central configuration structure: one value fully
// determines a run once paired with a seeded random source.
package destake

import (
	"encoding/json"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// ScheduledJoin injects one peer with a fixed stake at the start of the
// given epoch, unconditionally and before probabilistic churn. A whale
// arriving mid-run is the typical use.
type ScheduledJoin struct {
	// Epoch is the zero-based epoch at whose start the peer appears.
	Epoch idx.Epoch

	// Stake is the exact amount the peer joins with.
	Stake float64
}

// Params describes the complete configuration of a simulation run.
// The zero value is not useful; start from DefaultParams and override.
type Params struct {
	// Epochs is the number of selection rounds to simulate.
	Epochs idx.Epoch

	// Algo is the consensus weighting rule drawing the producer each epoch.
	Algo Algorithm

	// Volume is the total stake distributed across the initial peers.
	// It is deliberately unvalidated so experiments may start from
	// degenerate ledgers (all-zero stakes included).
	Volume float64

	// InitialDist is the shape of the initial stake vector.
	InitialDist Distribution

	// InitialGini is the target Gini coefficient for DistGini starts.
	InitialGini float64

	// Peers is the initial number of validators.
	Peers int

	// Corrupted is the number of initially corrupted validators. They are
	// drawn uniformly from the initial population.
	Corrupted int

	// FailP is the probability that a corrupted producer fails its slot
	// once selected.
	FailP float64

	// JoinP is the per-epoch join probability. Each epoch admits peers
	// while consecutive rolls keep succeeding, so bursts are possible.
	JoinP float64

	// LeaveP is the per-epoch leave probability. At most one peer departs
	// per epoch.
	LeaveP float64

	// JoinStake decides the stake granted to a probabilistically joined
	// peer, derived from the stakes already present.
	JoinStake JoinPolicy

	// Penalty is the stake fraction burned when a corrupted producer fails
	// its slot.
	Penalty float64

	// Theta is the Gini set point the stabilized selector steers toward.
	Theta float64

	// Smoothing is the step-size shape of the stabilized feedback control.
	Smoothing Smoothing

	// SmoothingRate is the feedback gain k scaling every smoothing shape.
	SmoothingRate float64

	// Reward is the stake granted to the producer of a successful epoch.
	Reward float64

	// ScheduledJoins lists deterministic arrivals, applied at the start of
	// their epoch in declaration order. Optional.
	ScheduledJoins []ScheduledJoin

	// CorruptedTracksRemoval selects how corruption marks behave when peers
	// depart. False keeps the historical position-keyed set that never
	// shrinks, so a later peer can inherit the mark of a departed one.
	// True attaches the mark to the peer itself.
	CorruptedTracksRemoval bool
}

// ConfigError reports the first parameter that violates its invariant.
// Callers needing the offending field programmatically unwrap it with
// errors.As; everyone else just prints it.
type ConfigError struct {
	// Field is the human name of the offending parameter.
	Field string

	// Reason states the violated constraint, rejected value included.
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Field + " " + e.Reason
}

// Validate checks the parameter invariants and reports the first violated
// one as a *ConfigError. Volume is deliberately not checked.
func (p *Params) Validate() error {
	if p.Epochs == 0 {
		return &ConfigError{Field: "epochs", Reason: fmt.Sprintf("must be positive, got %d", p.Epochs)}
	}
	if p.InitialGini < 0 || p.InitialGini > 1 {
		return &ConfigError{Field: "initial gini", Reason: fmt.Sprintf("must be between 0 and 1, got %v", p.InitialGini)}
	}
	if p.Peers <= 0 {
		return &ConfigError{Field: "peers", Reason: fmt.Sprintf("must be positive, got %d", p.Peers)}
	}
	if p.Corrupted < 0 {
		return &ConfigError{Field: "corrupted", Reason: fmt.Sprintf("must be non-negative, got %d", p.Corrupted)}
	}
	if p.FailP < 0 || p.FailP > 1 {
		return &ConfigError{Field: "fail probability", Reason: fmt.Sprintf("must be between 0 and 1, got %v", p.FailP)}
	}
	if p.JoinP < 0 || p.JoinP > 1 {
		return &ConfigError{Field: "join probability", Reason: fmt.Sprintf("must be between 0 and 1, got %v", p.JoinP)}
	}
	if p.LeaveP < 0 || p.LeaveP > 1 {
		return &ConfigError{Field: "leave probability", Reason: fmt.Sprintf("must be between 0 and 1, got %v", p.LeaveP)}
	}
	if p.Penalty < 0 || p.Penalty > 1 {
		return &ConfigError{Field: "penalty", Reason: fmt.Sprintf("must be between 0 and 1, got %v", p.Penalty)}
	}
	if p.Theta < 0 || p.Theta > 1 {
		return &ConfigError{Field: "theta", Reason: fmt.Sprintf("must be between 0 and 1, got %v", p.Theta)}
	}
	if p.SmoothingRate <= 0 {
		return &ConfigError{Field: "smoothing rate", Reason: fmt.Sprintf("must be positive, got %v", p.SmoothingRate)}
	}
	if p.Reward <= 0 {
		return &ConfigError{Field: "reward", Reason: fmt.Sprintf("must be positive, got %v", p.Reward)}
	}
	return nil
}

// Copy creates a deep copy of Params.
// The ScheduledJoins slice is cloned so the copy can be mutated freely.
func (p Params) Copy() Params {
	cp := p
	if p.ScheduledJoins != nil {
		cp.ScheduledJoins = make([]ScheduledJoin, len(p.ScheduledJoins))
		copy(cp.ScheduledJoins, p.ScheduledJoins)
	}
	return cp
}

// String returns a JSON representation of Params for debugging and logging.
func (p Params) String() string {
	b, _ := json.Marshal(&p)
	return string(b)
}

// DefaultParams returns the baseline configuration: a Gini-shaped
// thousand-peer ledger under classic weighted selection, with light churn
// and a harsh penalty regime.
func DefaultParams() Params {
	return Params{
		Epochs:        50000,
		Algo:          AlgoWeighted,
		Volume:        10000.0,
		InitialDist:   DistGini,
		InitialGini:   0.3,
		Peers:         1000,
		Corrupted:     20,
		FailP:         0.5,
		JoinP:         0.001,
		LeaveP:        0.001,
		JoinStake:     JoinRandom,
		Penalty:       0.5,
		Theta:         0.3,
		Smoothing:     SmoothLinear,
		SmoothingRate: 0.001,
		Reward:        10.0,
	}
}

// BenchParams returns the heavy benchmark configuration: a ten-thousand-peer
// ledger split at random cut points, strong churn and a large corrupted
// cohort. This is the most demanding profile the comparison harness runs.
func BenchParams() Params {
	p := DefaultParams()
	p.InitialDist = DistRandom
	p.Volume = 50000.0
	p.Peers = 10000
	p.Corrupted = 500
	p.JoinP = 0.005
	p.LeaveP = 0.005
	p.Reward = 50.0
	return p
}

// SmokeParams returns a scaled-down configuration for tests and local
// development: the default shape at a fraction of the size, finishing in
// well under a second.
func SmokeParams() Params {
	p := DefaultParams()
	p.Epochs = 2000
	p.Peers = 100
	p.Corrupted = 5
	return p
}
