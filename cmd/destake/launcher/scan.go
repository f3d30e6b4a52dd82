package launcher

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/destake/go-destake/chainscan"
	"github.com/destake/go-destake/flags"
)

var scanCommand = cli.Command{
	Name:   "scan",
	Usage:  "Fetch live validator sets and write dated CSV snapshots",
	Flags:  joinFlags(flags.CommonFlags(), flags.LogFlags(), flags.ScanFlags()),
	Action: scan,
}

var analyzeCommand = cli.Command{
	Name:   "analyze",
	Usage:  "Analyze previously fetched validator-set snapshots",
	Flags:  joinFlags(flags.CommonFlags(), flags.LogFlags(), flags.ScanFlags()),
	Action: analyze,
}

func scan(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}

	sources, err := chainscan.SelectSources(cfg.Scan.Networks, cfg.Scan.DuneKey)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Scan.Timeout}
	fetched := 0
	for _, src := range sources {
		logrus.WithField("network", src.Name()).Info("Fetching validator set")

		fetchCtx, cancel := context.WithTimeout(context.Background(), cfg.Scan.Timeout)
		snapshot, err := chainscan.Take(fetchCtx, client, src)
		cancel()
		if err != nil {
			// One unreachable network must not abort the whole sweep.
			logrus.WithError(err).WithField("network", src.Name()).Error("Fetch failed")
			continue
		}
		fetched++

		path, err := snapshot.WriteCSV(cfg.Scan.DataDir)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"network":    snapshot.Network,
			"validators": len(snapshot.Validators),
			"path":       path,
		}).Info("Snapshot written")

		if cfg.Scan.Analyze {
			printAnalysis(chainscan.Analyze(snapshot))
		}
	}

	if fetched == 0 && len(sources) > 0 {
		return fmt.Errorf("all %d networks failed to fetch", len(sources))
	}
	return nil
}

func analyze(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}

	snapshots, err := loadSnapshots(cfg.Scan)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no matching snapshots under %s", cfg.Scan.DataDir)
	}
	for _, s := range snapshots {
		printAnalysis(chainscan.Analyze(s))
	}
	return nil
}

// loadSnapshots reads the snapshot CSVs under the data directory, keeping
// the latest per network, optionally filtered by date and network list.
func loadSnapshots(cfg ScanConfig) ([]*chainscan.Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(cfg.DataDir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	wanted := make(map[string]bool, len(cfg.Networks))
	for _, name := range cfg.Networks {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	latest := make(map[string]*chainscan.Snapshot)
	for _, path := range paths {
		if cfg.Date != "" && !strings.HasPrefix(filepath.Base(path), cfg.Date+"_") {
			continue
		}
		s, err := chainscan.ReadCSV(path)
		if err != nil {
			logrus.WithError(err).WithField("path", path).Debug("Skipping file")
			continue
		}
		if len(wanted) > 0 && !wanted[s.Network] {
			continue
		}
		if prev, ok := latest[s.Network]; !ok || s.Taken.After(prev.Taken) {
			latest[s.Network] = s
		}
	}

	networks := make([]string, 0, len(latest))
	for name := range latest {
		networks = append(networks, name)
	}
	sort.Strings(networks)

	snapshots := make([]*chainscan.Snapshot, 0, len(networks))
	for _, name := range networks {
		snapshots = append(snapshots, latest[name])
	}
	return snapshots, nil
}

func printAnalysis(a *chainscan.Analysis) {
	pterm.DefaultTable.WithHasHeader(false).WithData(pterm.TableData{
		{"Network", a.Network},
		{"Validators", strconv.Itoa(a.Validators)},
		{"Gini", formatFloat(a.Gini)},
		{"HHI", formatFloat(a.HHI)},
		{"HHI normalized", formatFloat(a.HHINormalized)},
		{"Nakamoto 33%", strconv.Itoa(a.Nakamoto["33%"])},
		{"Nakamoto 51%", strconv.Itoa(a.Nakamoto["51%"])},
		{"Nakamoto 66%", strconv.Itoa(a.Nakamoto["66%"])},
		{"Decentralization", formatFloat(a.Decentralization)},
		{"Power exponent", formatFloat(a.PowerExponent)},
		{"Gini srsw", formatFloat(a.SRSW.Gini)},
		{"Gini log", formatFloat(a.Log.Gini)},
		{"Gini desw", formatFloat(a.DESW.Gini)},
		{"Quorum weight", strconv.FormatUint(uint64(a.QuorumWeight), 10)},
		{"Quorum size", strconv.Itoa(a.QuorumSize)},
	}).Render()
}
