package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// SimFlags holds every knob of a single simulation run. Defaults mirror the
// baseline scenario; values set on the command line override scenario and
// config-file settings.
func SimFlags() []cli.Flag {
	return []cli.Flag{
		cli.Uint64Flag{
			Name:  "sim.epochs",
			Usage: "Number of selection rounds to simulate",
			Value: 50000,
		},
		cli.StringFlag{
			Name:  "sim.algo",
			Usage: "Selection rule (weighted|opposite_weighted|gini_stabilized|log_weighted|desw|srsw|random)",
			Value: "weighted",
		},
		cli.Float64Flag{
			Name:  "sim.volume",
			Usage: "Total stake distributed across the initial peers",
			Value: 10000,
		},
		cli.StringFlag{
			Name:  "sim.dist",
			Usage: "Initial stake distribution (uniform|gini|random)",
			Value: "gini",
		},
		cli.Float64Flag{
			Name:  "sim.gini",
			Usage: "Target Gini coefficient for gini-shaped starts",
			Value: 0.3,
		},
		cli.IntFlag{
			Name:  "sim.peers",
			Usage: "Initial number of validators",
			Value: 1000,
		},
		cli.IntFlag{
			Name:  "sim.corrupted",
			Usage: "Number of initially corrupted validators",
			Value: 20,
		},
		cli.BoolFlag{
			Name:  "sim.sticky",
			Usage: "Attach corruption marks to peers instead of ledger positions",
		},
		cli.Float64Flag{
			Name:  "sim.failp",
			Usage: "Probability that a corrupted producer fails its slot",
			Value: 0.5,
		},
		cli.Float64Flag{
			Name:  "sim.joinp",
			Usage: "Per-epoch join probability",
			Value: 0.001,
		},
		cli.Float64Flag{
			Name:  "sim.leavep",
			Usage: "Per-epoch leave probability",
			Value: 0.001,
		},
		cli.StringFlag{
			Name:  "sim.joinstake",
			Usage: "Stake granted to joining peers (max|min|random|average)",
			Value: "random",
		},
		cli.StringSliceFlag{
			Name:  "sim.schedule",
			Usage: "Deterministic arrival as epoch:stake (repeatable)",
		},
		cli.Float64Flag{
			Name:  "sim.penalty",
			Usage: "Stake fraction burned when a corrupted producer fails",
			Value: 0.5,
		},
		cli.Float64Flag{
			Name:  "sim.theta",
			Usage: "Gini set point of the stabilized selector",
			Value: 0.3,
		},
		cli.StringFlag{
			Name:  "sim.smoothing",
			Usage: "Feedback step shape of the stabilized selector (constant|linear|quadratic|sqrt)",
			Value: "linear",
		},
		cli.Float64Flag{
			Name:  "sim.rate",
			Usage: "Feedback gain scaling every smoothing shape",
			Value: 0.001,
		},
		cli.Float64Flag{
			Name:  "sim.reward",
			Usage: "Stake granted to the producer of a successful epoch",
			Value: 10,
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "Random source seed; identical seeds reproduce runs exactly",
			Value: 42,
		},
	}
}

// OutputFlags controls which artifacts a run writes and where.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "out.dir",
			Usage: "Directory for run documents, CSVs and charts",
			Value: "results",
		},
		cli.BoolTFlag{
			Name:  "out.json",
			Usage: "Write the run document as JSON (default on)",
		},
		cli.BoolFlag{
			Name:  "out.csv",
			Usage: "Write the per-epoch history as CSV",
		},
		cli.BoolFlag{
			Name:  "out.charts",
			Usage: "Render PNG evolution charts",
		},
		cli.BoolFlag{
			Name:  "out.history",
			Usage: "Embed the full per-epoch history in the JSON document",
		},
	}
}
