package launcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/destake/go-destake/benchmark"
	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/flags"
	"github.com/destake/go-destake/report"
)

var benchmarkCommand = cli.Command{
	Name:   "benchmark",
	Usage:  "Compare selection algorithms over repeated runs",
	Flags:  joinFlags(flags.CommonFlags(), flags.LogFlags(), flags.SimFlags(), flags.BenchFlags(), flags.OutputFlags()),
	Action: runBenchmark,
}

func runBenchmark(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}

	bcfg := &benchmark.Config{
		Params:     cfg.Params,
		Algorithms: cfg.Bench.Algos,
		Runs:       cfg.Bench.Runs,
		Seed:       cfg.Seed,
		Parallel:   cfg.Bench.Parallel,
	}

	logrus.WithFields(logrus.Fields{
		"algorithms": len(bcfg.Algorithms),
		"runs":       bcfg.Runs,
		"parallel":   bcfg.Parallel,
		"seed":       bcfg.Seed,
	}).Info("Starting benchmark")

	bar, err := pterm.DefaultProgressbar.
		WithTotal(len(bcfg.Algorithms) * bcfg.Runs).
		WithTitle("Benchmarking").
		Start()
	if err != nil {
		return err
	}
	// Parallel runs report from worker goroutines.
	var mu sync.Mutex
	bcfg.OnRun = func(destake.Algorithm, int) {
		mu.Lock()
		defer mu.Unlock()
		bar.Increment()
	}

	summary, err := benchmark.Run(bcfg)
	_, _ = bar.Stop()
	if err != nil {
		return err
	}
	summary.Scenario = cfg.Scenario

	printSummaryTable(summary)

	if cfg.Output.JSON {
		path := filepath.Join(cfg.Output.Dir, summaryFileName(&cfg))
		if err := report.WriteJSON(path, summary); err != nil {
			return err
		}
		logrus.WithField("path", path).Info("Benchmark summary written")
	}
	return nil
}

func printSummaryTable(s *benchmark.Summary) {
	data := pterm.TableData{
		{"Algorithm", "Final Gini", "Final Nakamoto", "Final HHI", "Final Peers", "Seconds/Run"},
	}
	for _, r := range s.Results {
		data = append(data, []string{
			r.Algorithm,
			meanStd(r.FinalGini),
			meanStd(r.FinalNakamoto),
			meanStd(r.FinalHHI),
			meanStd(r.FinalPeers),
			meanStd(r.Seconds),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func meanStd(st benchmark.Stats) string {
	return fmt.Sprintf("%.3f ± %.3f", st.Mean, st.Std)
}

func summaryFileName(cfg *Config) string {
	if cfg.Scenario != "" {
		return fmt.Sprintf("benchmark_%s.json", cfg.Scenario)
	}
	return "benchmark.json"
}
