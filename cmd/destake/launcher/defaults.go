package launcher

import (
	"time"

	"github.com/destake/go-destake/destake"
)

// defaultConfig bundles the baseline values the launcher uses before the
// scenario preset, config file and flags override them.
func defaultConfig() Config {
	return Config{
		Seed:   42, // fixed seed so bare invocations reproduce exactly
		Params: destake.DefaultParams(),
		Output: OutputConfig{
			Dir:     "results",
			JSON:    true,  // the run document is the primary artifact
			CSV:     false, // per-epoch history on request only
			Charts:  false,
			History: false,
		},
		Bench: BenchConfig{
			Runs: 10,
			Algos: []destake.Algorithm{
				destake.AlgoWeighted,
				destake.AlgoSRSW,
				destake.AlgoLogWeighted,
				destake.AlgoDESW,
			},
			Parallel: false,
		},
		Scan: ScanConfig{
			Networks: nil, // nil selects every registered network
			DataDir:  "data",
			Timeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Verbosity: 3, // info
			Format:    "text",
			Color:     false,
		},
	}
}
