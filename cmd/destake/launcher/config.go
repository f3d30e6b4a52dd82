package launcher

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/spf13/viper"
	"gopkg.in/urfave/cli.v1"

	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/integration"
)

// Config aggregates everything the launcher needs for one invocation.
type Config struct {
	// Scenario is the name of the applied scenario preset, if any. It
	// labels run documents and benchmark summaries.
	Scenario string

	// Seed feeds the deterministic random source of simulate and benchmark.
	Seed int64

	Params  destake.Params
	Output  OutputConfig
	Bench   BenchConfig
	Scan    ScanConfig
	Logging LoggingConfig
}

// OutputConfig decides which artifacts a run writes and where.
type OutputConfig struct {
	Dir     string // destination directory for run artifacts
	JSON    bool   // write the run document
	CSV     bool   // write the per-epoch history
	Charts  bool   // render PNG evolution charts
	History bool   // embed the full history in the JSON document
}

// BenchConfig tunes the multi-run comparison harness.
type BenchConfig struct {
	Runs     int
	Algos    []destake.Algorithm
	Parallel bool
}

// ScanConfig configures validator-set fetching and snapshot analysis.
type ScanConfig struct {
	Networks []string      // networks to fetch; empty means all registered
	DataDir  string        // directory of dated snapshot CSVs
	DuneKey  string        // Dune Analytics API key for the ethereum source
	Analyze  bool          // print the analysis table after fetching
	Date     string        // ddmmyyyy filter for offline analysis
	Timeout  time.Duration // per-network fetch timeout
}

// LoggingConfig covers both logging tiers.
type LoggingConfig struct {
	Verbosity int    // 0=fatal .. 5=trace, shared by both tiers
	Format    string // text|json, lifecycle logger only
	Color     bool
	SentryDSN string
}

// MakeAllConfigs merges defaults, the scenario preset, the optional config
// file and finally CLI flag overrides into a single validated Config.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if name := ctx.String("scenario"); name != "" {
		s, err := integration.GetScenarioByName(name)
		if err != nil {
			return Config{}, err
		}
		integration.ApplyScenario(&cfg.Params, s)
		cfg.Scenario = s.Name
	}

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", file, err)
		}
	}

	if err := applyFlags(ctx, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Params.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return applyViper(v, cfg)
}

// applyViper copies every key present in the config file over the current
// values. Keys mirror the flag names, so a flat file and the command line
// describe runs in the same vocabulary.
func applyViper(v *viper.Viper, cfg *Config) error {
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}

	if v.IsSet("sim.epochs") {
		cfg.Params.Epochs = idx.Epoch(v.GetUint32("sim.epochs"))
	}
	if v.IsSet("sim.algo") {
		algo, err := destake.ParseAlgorithm(v.GetString("sim.algo"))
		if err != nil {
			return err
		}
		cfg.Params.Algo = algo
	}
	if v.IsSet("sim.volume") {
		cfg.Params.Volume = v.GetFloat64("sim.volume")
	}
	if v.IsSet("sim.dist") {
		dist, err := destake.ParseDistribution(v.GetString("sim.dist"))
		if err != nil {
			return err
		}
		cfg.Params.InitialDist = dist
	}
	if v.IsSet("sim.gini") {
		cfg.Params.InitialGini = v.GetFloat64("sim.gini")
	}
	if v.IsSet("sim.peers") {
		cfg.Params.Peers = v.GetInt("sim.peers")
	}
	if v.IsSet("sim.corrupted") {
		cfg.Params.Corrupted = v.GetInt("sim.corrupted")
	}
	if v.IsSet("sim.sticky") {
		cfg.Params.CorruptedTracksRemoval = v.GetBool("sim.sticky")
	}
	if v.IsSet("sim.failp") {
		cfg.Params.FailP = v.GetFloat64("sim.failp")
	}
	if v.IsSet("sim.joinp") {
		cfg.Params.JoinP = v.GetFloat64("sim.joinp")
	}
	if v.IsSet("sim.leavep") {
		cfg.Params.LeaveP = v.GetFloat64("sim.leavep")
	}
	if v.IsSet("sim.joinstake") {
		policy, err := destake.ParseJoinPolicy(v.GetString("sim.joinstake"))
		if err != nil {
			return err
		}
		cfg.Params.JoinStake = policy
	}
	if v.IsSet("sim.schedule") {
		joins, err := parseSchedule(v.GetStringSlice("sim.schedule"))
		if err != nil {
			return err
		}
		cfg.Params.ScheduledJoins = joins
	}
	if v.IsSet("sim.penalty") {
		cfg.Params.Penalty = v.GetFloat64("sim.penalty")
	}
	if v.IsSet("sim.theta") {
		cfg.Params.Theta = v.GetFloat64("sim.theta")
	}
	if v.IsSet("sim.smoothing") {
		smoothing, err := destake.ParseSmoothing(v.GetString("sim.smoothing"))
		if err != nil {
			return err
		}
		cfg.Params.Smoothing = smoothing
	}
	if v.IsSet("sim.rate") {
		cfg.Params.SmoothingRate = v.GetFloat64("sim.rate")
	}
	if v.IsSet("sim.reward") {
		cfg.Params.Reward = v.GetFloat64("sim.reward")
	}

	if v.IsSet("out.dir") {
		cfg.Output.Dir = v.GetString("out.dir")
	}
	if v.IsSet("out.json") {
		cfg.Output.JSON = v.GetBool("out.json")
	}
	if v.IsSet("out.csv") {
		cfg.Output.CSV = v.GetBool("out.csv")
	}
	if v.IsSet("out.charts") {
		cfg.Output.Charts = v.GetBool("out.charts")
	}
	if v.IsSet("out.history") {
		cfg.Output.History = v.GetBool("out.history")
	}

	if v.IsSet("bench.runs") {
		cfg.Bench.Runs = v.GetInt("bench.runs")
	}
	if v.IsSet("bench.algos") {
		algos, err := parseAlgorithms(v.GetStringSlice("bench.algos"))
		if err != nil {
			return err
		}
		cfg.Bench.Algos = algos
	}
	if v.IsSet("bench.parallel") {
		cfg.Bench.Parallel = v.GetBool("bench.parallel")
	}

	if v.IsSet("networks") {
		cfg.Scan.Networks = v.GetStringSlice("networks")
	}
	if v.IsSet("data.dir") {
		cfg.Scan.DataDir = v.GetString("data.dir")
	}
	if v.IsSet("dune.key") {
		cfg.Scan.DuneKey = v.GetString("dune.key")
	}
	if v.IsSet("scan.timeout") {
		cfg.Scan.Timeout = v.GetDuration("scan.timeout")
	}

	if v.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = v.GetInt("log.verbosity")
	}
	if v.IsSet("log.format") {
		cfg.Logging.Format = v.GetString("log.format")
	}
	if v.IsSet("log.color") {
		cfg.Logging.Color = v.GetBool("log.color")
	}
	if v.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = v.GetString("sentry.dsn")
	}
	return nil
}

// applyFlags copies every flag the user set on the command line over the
// current values. Flags win over both the scenario and the config file.
func applyFlags(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}

	if ctx.IsSet("sim.epochs") {
		cfg.Params.Epochs = idx.Epoch(ctx.Uint64("sim.epochs"))
	}
	if ctx.IsSet("sim.algo") {
		algo, err := destake.ParseAlgorithm(ctx.String("sim.algo"))
		if err != nil {
			return err
		}
		cfg.Params.Algo = algo
	}
	if ctx.IsSet("sim.volume") {
		cfg.Params.Volume = ctx.Float64("sim.volume")
	}
	if ctx.IsSet("sim.dist") {
		dist, err := destake.ParseDistribution(ctx.String("sim.dist"))
		if err != nil {
			return err
		}
		cfg.Params.InitialDist = dist
	}
	if ctx.IsSet("sim.gini") {
		cfg.Params.InitialGini = ctx.Float64("sim.gini")
	}
	if ctx.IsSet("sim.peers") {
		cfg.Params.Peers = ctx.Int("sim.peers")
	}
	if ctx.IsSet("sim.corrupted") {
		cfg.Params.Corrupted = ctx.Int("sim.corrupted")
	}
	if ctx.IsSet("sim.sticky") {
		cfg.Params.CorruptedTracksRemoval = ctx.Bool("sim.sticky")
	}
	if ctx.IsSet("sim.failp") {
		cfg.Params.FailP = ctx.Float64("sim.failp")
	}
	if ctx.IsSet("sim.joinp") {
		cfg.Params.JoinP = ctx.Float64("sim.joinp")
	}
	if ctx.IsSet("sim.leavep") {
		cfg.Params.LeaveP = ctx.Float64("sim.leavep")
	}
	if ctx.IsSet("sim.joinstake") {
		policy, err := destake.ParseJoinPolicy(ctx.String("sim.joinstake"))
		if err != nil {
			return err
		}
		cfg.Params.JoinStake = policy
	}
	if ctx.IsSet("sim.schedule") {
		joins, err := parseSchedule(ctx.StringSlice("sim.schedule"))
		if err != nil {
			return err
		}
		cfg.Params.ScheduledJoins = joins
	}
	if ctx.IsSet("sim.penalty") {
		cfg.Params.Penalty = ctx.Float64("sim.penalty")
	}
	if ctx.IsSet("sim.theta") {
		cfg.Params.Theta = ctx.Float64("sim.theta")
	}
	if ctx.IsSet("sim.smoothing") {
		smoothing, err := destake.ParseSmoothing(ctx.String("sim.smoothing"))
		if err != nil {
			return err
		}
		cfg.Params.Smoothing = smoothing
	}
	if ctx.IsSet("sim.rate") {
		cfg.Params.SmoothingRate = ctx.Float64("sim.rate")
	}
	if ctx.IsSet("sim.reward") {
		cfg.Params.Reward = ctx.Float64("sim.reward")
	}

	if ctx.IsSet("out.dir") {
		cfg.Output.Dir = ctx.String("out.dir")
	}
	if ctx.IsSet("out.json") {
		cfg.Output.JSON = ctx.BoolT("out.json")
	}
	if ctx.IsSet("out.csv") {
		cfg.Output.CSV = ctx.Bool("out.csv")
	}
	if ctx.IsSet("out.charts") {
		cfg.Output.Charts = ctx.Bool("out.charts")
	}
	if ctx.IsSet("out.history") {
		cfg.Output.History = ctx.Bool("out.history")
	}

	if ctx.IsSet("bench.runs") {
		cfg.Bench.Runs = ctx.Int("bench.runs")
	}
	if ctx.IsSet("bench.algos") {
		algos, err := parseAlgorithms(splitCSV(ctx.String("bench.algos")))
		if err != nil {
			return err
		}
		cfg.Bench.Algos = algos
	}
	if ctx.IsSet("bench.parallel") {
		cfg.Bench.Parallel = ctx.Bool("bench.parallel")
	}

	if ctx.IsSet("networks") {
		cfg.Scan.Networks = splitCSV(ctx.String("networks"))
	}
	if ctx.IsSet("data.dir") {
		cfg.Scan.DataDir = ctx.String("data.dir")
	}
	// The key may arrive through the environment, which IsSet cannot see.
	if key := ctx.String("dune.key"); key != "" {
		cfg.Scan.DuneKey = key
	}
	if ctx.IsSet("analyze") {
		cfg.Scan.Analyze = ctx.Bool("analyze")
	}
	if ctx.IsSet("date") {
		cfg.Scan.Date = ctx.String("date")
	}
	if ctx.IsSet("scan.timeout") {
		cfg.Scan.Timeout = ctx.Duration("scan.timeout")
	}

	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if dsn := ctx.String("sentry.dsn"); dsn != "" {
		cfg.Logging.SentryDSN = dsn
	}
	return nil
}

// parseSchedule converts epoch:stake entries into scheduled joins.
func parseSchedule(entries []string) ([]destake.ScheduledJoin, error) {
	joins := make([]destake.ScheduledJoin, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("scheduled join %q: want epoch:stake", entry)
		}
		epoch, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("scheduled join %q: %w", entry, err)
		}
		stake, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("scheduled join %q: %w", entry, err)
		}
		joins = append(joins, destake.ScheduledJoin{Epoch: idx.Epoch(epoch), Stake: stake})
	}
	return joins, nil
}

func parseAlgorithms(names []string) ([]destake.Algorithm, error) {
	algos := make([]destake.Algorithm, 0, len(names))
	for _, name := range names {
		algo, err := destake.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algos = append(algos, algo)
	}
	return algos, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
