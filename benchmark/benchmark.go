// Package benchmark compares selection rules over repeated simulations.
//
// Every algorithm starts from the same generated population, every run gets
// its own derived seed, and the per-run final observables are aggregated
// into mean/std/min/max. Two invocations with the same Config produce the
// same Summary apart from its ID and timestamp, whether or not the runs
// are fanned out in parallel.
package benchmark

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	ethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/metrics"
	"github.com/destake/go-destake/sim"
	"github.com/destake/go-destake/utils/sampling"
)

var runTimer = ethmetrics.GetOrRegisterTimer("destake/benchmark/run", nil)

const (
	defaultRuns = 10
	defaultSeed = 42
)

// defaultAlgorithms are the rules compared when the caller names none.
var defaultAlgorithms = []destake.Algorithm{
	destake.AlgoWeighted,
	destake.AlgoSRSW,
	destake.AlgoLogWeighted,
	destake.AlgoDESW,
}

// Config describes one comparison. Zero Runs and nil Algorithms fall back
// to the defaults; the Seed is taken as-is (DefaultConfig sets 42).
type Config struct {
	Params     destake.Params
	Algorithms []destake.Algorithm
	Runs       int
	Seed       int64
	Parallel   bool

	// OnRun, when set, is called after every finished run. With Parallel
	// it runs on the worker goroutine and must be safe for concurrent use.
	OnRun func(algo destake.Algorithm, run int)
}

// DefaultConfig returns a Config over the given parameters with the
// standard comparison set, 10 runs and seed 42.
func DefaultConfig(p destake.Params) *Config {
	return &Config{
		Params:     p,
		Algorithms: append([]destake.Algorithm{}, defaultAlgorithms...),
		Runs:       defaultRuns,
		Seed:       defaultSeed,
	}
}

// Stats aggregates one observable over the runs of an algorithm.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// newStats computes the aggregate of xs. The std of fewer than two samples
// is reported as 0.
func newStats(xs []float64) Stats {
	s := Stats{
		Mean: stat.Mean(xs, nil),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
	}
	if len(xs) > 1 {
		s.Std = stat.StdDev(xs, nil)
	}
	return s
}

// RunOutcome is the final snapshot of a single run plus its bookkeeping.
type RunOutcome struct {
	Seed     int64   `json:"seed"`
	Gini     float64 `json:"gini"`
	Nakamoto int     `json:"nakamoto"`
	HHI      float64 `json:"hhi"`
	Peers    int     `json:"peers"`
	Seconds  float64 `json:"seconds"`
}

// AlgoResult aggregates all runs of one selection rule.
type AlgoResult struct {
	Algorithm string       `json:"algorithm"`
	Runs      []RunOutcome `json:"runs"`

	FinalGini     Stats `json:"finalGini"`
	FinalNakamoto Stats `json:"finalNakamoto"`
	FinalHHI      Stats `json:"finalHHI"`
	FinalPeers    Stats `json:"finalPeers"`
	Seconds       Stats `json:"seconds"`
}

// Summary is the full comparison document.
type Summary struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	Scenario    string         `json:"scenario,omitempty"`
	Params      destake.Params `json:"params"`
	InitialGini float64        `json:"initialGini"`
	Runs        int            `json:"runs"`
	Results     []AlgoResult   `json:"results"`
}

// Run executes the comparison. The initial stakes and the corrupted cohort
// are generated once from the seed and shared read-only across all runs;
// the simulation copies them per run. Per-run seeds are drawn up front in
// a fixed order, so the parallel and sequential paths agree exactly.
func Run(cfg *Config) (*Summary, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("benchmark config: %w", err)
	}
	algorithms := cfg.Algorithms
	if len(algorithms) == 0 {
		algorithms = defaultAlgorithms
	}
	runs := cfg.Runs
	if runs <= 0 {
		runs = defaultRuns
	}

	seedRNG := rand.New(rand.NewSource(cfg.Seed))
	initialStakes, err := destake.GenerateStakes(
		cfg.Params.Peers, cfg.Params.Volume, cfg.Params.InitialDist, cfg.Params.InitialGini, seedRNG)
	if err != nil {
		return nil, err
	}
	initialCorrupted, err := sampling.Indices(seedRNG, cfg.Params.Peers, cfg.Params.Corrupted)
	if err != nil {
		return nil, fmt.Errorf("corrupted cohort: %w", err)
	}

	summary := &Summary{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Params:      cfg.Params.Copy(),
		InitialGini: metrics.Gini(initialStakes),
		Runs:        runs,
		Results:     make([]AlgoResult, 0, len(algorithms)),
	}

	for _, algo := range algorithms {
		seeds := make([]int64, runs)
		for i := range seeds {
			seeds[i] = seedRNG.Int63()
		}

		started := time.Now()
		outcomes := make([]RunOutcome, runs)
		errs := make([]error, runs)
		if cfg.Parallel {
			var wg sync.WaitGroup
			for i := 0; i < runs; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					outcomes[i], errs[i] = runOne(cfg, algo, i, seeds[i], initialStakes, initialCorrupted)
				}(i)
			}
			wg.Wait()
		} else {
			for i := 0; i < runs; i++ {
				outcomes[i], errs[i] = runOne(cfg, algo, i, seeds[i], initialStakes, initialCorrupted)
			}
		}
		for i, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("%s run %d: %w", algo, i, err)
			}
		}

		summary.Results = append(summary.Results, aggregate(algo, outcomes))
		log.Info("Algorithm benchmarked", "algo", algo, "runs", runs, "elapsed", time.Since(started))
	}
	return summary, nil
}

// runOne simulates a single run of one algorithm with its derived seed.
func runOne(cfg *Config, algo destake.Algorithm, run int, seed int64, stakes []float64, corrupted []int) (RunOutcome, error) {
	p := cfg.Params.Copy()
	p.Algo = algo

	started := time.Now()
	result, err := sim.Simulate(stakes, corrupted, &p, rand.New(rand.NewSource(seed)))
	if err != nil {
		return RunOutcome{}, err
	}
	elapsed := time.Since(started)
	runTimer.Update(elapsed)

	final := result.Final()
	outcome := RunOutcome{
		Seed:     seed,
		Gini:     final.Gini,
		Nakamoto: final.Nakamoto,
		HHI:      final.HHI,
		Peers:    final.Peers,
		Seconds:  elapsed.Seconds(),
	}
	if cfg.OnRun != nil {
		cfg.OnRun(algo, run)
	}
	return outcome, nil
}

// aggregate folds the per-run outcomes of one algorithm into stats.
func aggregate(algo destake.Algorithm, outcomes []RunOutcome) AlgoResult {
	gini := make([]float64, len(outcomes))
	nakamoto := make([]float64, len(outcomes))
	hhi := make([]float64, len(outcomes))
	peers := make([]float64, len(outcomes))
	seconds := make([]float64, len(outcomes))
	for i, o := range outcomes {
		gini[i] = o.Gini
		nakamoto[i] = float64(o.Nakamoto)
		hhi[i] = o.HHI
		peers[i] = float64(o.Peers)
		seconds[i] = o.Seconds
	}
	return AlgoResult{
		Algorithm:     algo.String(),
		Runs:          outcomes,
		FinalGini:     newStats(gini),
		FinalNakamoto: newStats(nakamoto),
		FinalHHI:      newStats(hhi),
		FinalPeers:    newStats(peers),
		Seconds:       newStats(seconds),
	}
}
