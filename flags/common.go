package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "TOML/YAML configuration file applied after the scenario preset",
		},
		cli.StringFlag{
			Name:  "scenario",
			Usage: "Named parameter scenario (baseline|uniform|churn|adversarial|stabilized)",
		},
	}
}

// LogFlags covers both logging tiers: the component-level key-value logger
// and the launcher's lifecycle logger.
func LogFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Enable colored log output",
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Sentry DSN for forwarding error-and-above log entries",
		},
	}
}
