// Package sim drives the epoch loop of a stake economy: churn first, then
// measurement, then block production and its reward or slash.
//
// Use Case:
//
//	a) reproduce a full run from a parameter set and a seed (Run)
//	b) replay a hand-built population through the same loop (Simulate)
//	c) feed per-epoch progress to an interactive caller (RunProgress)
//
// Every entry point threads an explicit *rand.Rand. Two calls with equal
// parameters and equally seeded generators produce identical histories.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/log"

	"github.com/destake/go-destake/consensus"
	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/metrics"
	"github.com/destake/go-destake/utils/sampling"
)

// ProgressFn is called after each finished epoch with the count of epochs
// done and the total. It runs on the simulating goroutine; keep it cheap.
type ProgressFn func(done, total idx.Epoch)

// Run generates a fresh population from the parameters and simulates it.
// The corrupted cohort is drawn uniformly from the initial peers.
func Run(p *destake.Params, rng *rand.Rand) (*Result, error) {
	return RunProgress(p, rng, nil)
}

// RunProgress is Run with a per-epoch progress callback.
func RunProgress(p *destake.Params, rng *rand.Rand, onEpoch ProgressFn) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	stakes, err := destake.GenerateStakes(p.Peers, p.Volume, p.InitialDist, p.InitialGini, rng)
	if err != nil {
		return nil, err
	}
	corrupted, err := sampling.Indices(rng, p.Peers, p.Corrupted)
	if err != nil {
		return nil, fmt.Errorf("corrupted cohort: %w", err)
	}
	return SimulateProgress(stakes, corrupted, p, rng, onEpoch)
}

// Simulate runs the epoch loop over the given population. The stakes and
// corrupted slices are copied, never mutated. The corruption share of
// probabilistic newcomers is fixed up front at len(corrupted)/len(stakes)
// and does not follow the live population.
//
// If the population dies out entirely, selection becomes impossible and
// the run aborts with an error wrapping consensus.ErrNoPeers that names
// the epoch.
func Simulate(stakes []float64, corrupted []int, p *destake.Params, rng *rand.Rand) (*Result, error) {
	return SimulateProgress(stakes, corrupted, p, rng, nil)
}

// SimulateProgress is Simulate with a per-epoch progress callback.
func SimulateProgress(stakes []float64, corrupted []int, p *destake.Params, rng *rand.Rand, onEpoch ProgressFn) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(stakes) == 0 {
		return nil, fmt.Errorf("initial ledger: %w", consensus.ErrNoPeers)
	}
	ledger, err := NewLedger(stakes, corrupted, p.CorruptedTracksRemoval)
	if err != nil {
		return nil, err
	}

	corruptFrac := float64(len(corrupted)) / float64(len(stakes))
	initialGini := metrics.Gini(stakes)

	selector, err := consensus.New(p, initialGini)
	if err != nil {
		return nil, err
	}
	stabilized, _ := selector.(*consensus.GiniStabilized)

	scheduled := make(map[idx.Epoch][]float64, len(p.ScheduledJoins))
	for _, join := range p.ScheduledJoins {
		scheduled[join.Epoch] = append(scheduled[join.Epoch], join.Stake)
	}

	result := &Result{
		InitialGini: initialGini,
		Gini:        make([]float64, 0, p.Epochs),
		Nakamoto:    make([]int, 0, p.Epochs),
		HHI:         make([]float64, 0, p.Epochs),
		PeerCount:   make([]int, 0, p.Epochs),
	}

	for epoch := idx.Epoch(0); epoch < p.Epochs; epoch++ {
		for _, stake := range scheduled[epoch] {
			ledger.Append(stake, false)
			log.Debug("Scheduled join", "epoch", epoch, "stake", stake)
		}
		tryJoin(ledger, p.JoinP, p.JoinStake, corruptFrac, rng)
		tryLeave(ledger, p.LeaveP, rng)

		g := metrics.Gini(ledger.Stakes())
		result.Gini = append(result.Gini, g)
		result.Nakamoto = append(result.Nakamoto, metrics.Nakamoto(ledger.Stakes()))
		result.HHI = append(result.HHI, metrics.HHI(ledger.Stakes()))

		winner, err := selector.Pick(ledger.Stakes(), rng)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		if stabilized != nil {
			stabilized.Observe(g)
		}

		if ledger.IsCorrupted(winner) && rng.Float64() > 1-p.FailP {
			ledger.Slash(winner, p.Penalty)
		} else {
			ledger.Reward(winner, p.Reward)
		}
		result.PeerCount = append(result.PeerCount, ledger.Len())

		if onEpoch != nil {
			onEpoch(epoch+1, p.Epochs)
		}
	}
	return result, nil
}
