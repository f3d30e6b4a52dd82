// Package launcher wires the command-line surface: it assembles the
// application from the flag groups, merges configuration sources in a fixed
// order (defaults, scenario preset, config file, flags) and dispatches to
// the simulate, benchmark, scan, analyze and scenarios commands.
package launcher

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/destake/go-destake/flags"
	"github.com/destake/go-destake/logger"
)

var app = flags.NewApp()

func init() {
	app.Commands = []cli.Command{
		simulateCommand,
		benchmarkCommand,
		scanCommand,
		analyzeCommand,
		scenariosCommand,
	}
}

// Launch parses the command line and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}

// joinFlags merges flag groups into one command flag list.
func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var merged []cli.Flag
	for _, group := range groups {
		merged = append(merged, group...)
	}
	return merged
}

// setupLogging installs both logging tiers: a glog-style root handler for
// the key-value logs of the library packages, and the lifecycle logger the
// launcher itself speaks, with the optional Sentry hook.
func setupLogging(cfg LoggingConfig) error {
	glogger := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(cfg.Color)))
	glogger.Verbosity(log.Lvl(cfg.Verbosity))
	log.Root().SetHandler(glogger)

	logger.Setup(verbosityLevel(cfg.Verbosity), cfg.Format == "json")
	return logger.AttachSentry(cfg.SentryDSN, app.Version)
}

// verbosityLevel maps the numeric verbosity shared by both tiers onto a
// lifecycle logger level name.
func verbosityLevel(v int) string {
	switch {
	case v <= 0:
		return "fatal"
	case v == 1:
		return "error"
	case v == 2:
		return "warn"
	case v == 3:
		return "info"
	case v == 4:
		return "debug"
	default:
		return "trace"
	}
}
