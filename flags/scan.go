package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// ScanFlags configures live validator-set fetching and the offline analysis
// of previously fetched snapshots.
func ScanFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "networks",
			Usage: "Comma-separated networks to fetch (default: all registered)",
		},
		cli.StringFlag{
			Name:  "data.dir",
			Usage: "Directory holding dated validator-set CSVs",
			Value: "data",
		},
		cli.StringFlag{
			Name:   "dune.key",
			Usage:  "Dune Analytics API key for the ethereum source",
			EnvVar: "DUNE_API_KEY",
		},
		cli.BoolFlag{
			Name:  "analyze",
			Usage: "Print the concentration analysis after fetching",
		},
		cli.StringFlag{
			Name:  "date",
			Usage: "Snapshot date to analyze as ddmmyyyy (default: latest on disk)",
		},
		cli.DurationFlag{
			Name:  "scan.timeout",
			Usage: "Per-network fetch timeout",
			Value: 30 * time.Second,
		},
	}
}
