package launcher

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/destake/go-destake/flags"
	"github.com/destake/go-destake/logger"
	"github.com/destake/go-destake/report"
	"github.com/destake/go-destake/sim"
)

// progressInterval throttles progress-bar redraws during long runs.
const progressInterval = 200 * time.Millisecond

var simulateCommand = cli.Command{
	Name:   "simulate",
	Usage:  "Run one simulation and write its artifacts",
	Flags:  joinFlags(flags.CommonFlags(), flags.LogFlags(), flags.SimFlags(), flags.OutputFlags()),
	Action: simulate,
}

func simulate(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"algo":   cfg.Params.Algo.String(),
		"epochs": cfg.Params.Epochs,
		"peers":  cfg.Params.Peers,
		"seed":   cfg.Seed,
	}).Info("Starting simulation")

	rng := rand.New(rand.NewSource(cfg.Seed))

	bar, err := pterm.DefaultProgressbar.
		WithTotal(int(cfg.Params.Epochs)).
		WithTitle("Simulating").
		Start()
	if err != nil {
		return err
	}

	var (
		gate logger.Periodic
		done int
	)
	result, err := sim.RunProgress(&cfg.Params, rng, func(epoch, total idx.Epoch) {
		if epoch < total && !gate.Ready(progressInterval) {
			return
		}
		bar.Add(int(epoch) - done)
		done = int(epoch)
	})
	_, _ = bar.Stop()
	if err != nil {
		return err
	}

	final := result.Final()
	logrus.WithFields(logrus.Fields{
		"gini":     final.Gini,
		"nakamoto": final.Nakamoto,
		"peers":    final.Peers,
	}).Info("Simulation finished")

	printRunTable(result)

	return writeRunArtifacts(&cfg, result)
}

func printRunTable(r *sim.Result) {
	var start sim.Snapshot
	if r.Len() > 0 {
		start = r.At(0)
	}
	final := r.Final()

	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Metric", "Start", "Final"},
		{"Gini", formatFloat(start.Gini), formatFloat(final.Gini)},
		{"Nakamoto", strconv.Itoa(start.Nakamoto), strconv.Itoa(final.Nakamoto)},
		{"HHI", formatFloat(start.HHI), formatFloat(final.HHI)},
		{"Peers", strconv.Itoa(start.Peers), strconv.Itoa(final.Peers)},
	}).Render()
}

// writeRunArtifacts persists the artifacts selected by the output config.
func writeRunArtifacts(cfg *Config, r *sim.Result) error {
	doc := report.NewRunDocument(cfg.Scenario, cfg.Params, r, cfg.Output.History)

	if cfg.Output.JSON {
		path := filepath.Join(cfg.Output.Dir, runPrefix(cfg)+"_run.json")
		if err := report.WriteJSON(path, doc); err != nil {
			return err
		}
		logrus.WithField("path", path).Info("Run document written")
	}
	if cfg.Output.CSV {
		path := filepath.Join(cfg.Output.Dir, runPrefix(cfg)+"_history.csv")
		if err := report.WriteHistoryCSV(path, r); err != nil {
			return err
		}
		logrus.WithField("path", path).Info("History written")
	}
	if cfg.Output.Charts {
		paths, err := report.WriteEvolutionCharts(cfg.Output.Dir, runPrefix(cfg), r)
		if err != nil {
			return err
		}
		logrus.WithField("charts", len(paths)).Info("Charts written")
	}
	return nil
}

// runPrefix names artifacts after the scenario, falling back to the
// selection rule for ad hoc runs.
func runPrefix(cfg *Config) string {
	if cfg.Scenario != "" {
		return cfg.Scenario
	}
	return cfg.Params.Algo.String()
}

func formatFloat(x float64) string {
	return fmt.Sprintf("%.4f", x)
}
