package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// BenchFlags tunes the multi-run comparison harness.
func BenchFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "bench.runs",
			Usage: "Number of runs per algorithm",
			Value: 10,
		},
		cli.StringFlag{
			Name:  "bench.algos",
			Usage: "Comma-separated algorithms to compare",
			Value: "weighted,srsw,log_weighted,desw",
		},
		cli.BoolFlag{
			Name:  "bench.parallel",
			Usage: "Run the per-algorithm runs concurrently",
		},
	}
}
