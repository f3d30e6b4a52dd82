// Package chainscan fetches live validator sets of production networks and
// measures their concentration with the same coefficients the simulator
// tracks.
//
// Use Case:
//
//	a) snapshot the current validator set of a supported network (Take)
//	b) persist and reload snapshots as dated CSV files
//	c) score a snapshot, including what the square-root, logarithmic and
//	   dynamic-power reweighting families would do to it (Analyze)
//
// Every source normalizes its network's response to (address, tokens)
// pairs sorted by stake descending, addresses ascending on ties.
package chainscan

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Validator is one entry of a network's validator set.
type Validator struct {
	Address string  `json:"address"`
	Tokens  float64 `json:"tokens"`
}

// Snapshot is a validator set observed at a point in time.
type Snapshot struct {
	Network    string      `json:"network"`
	Taken      time.Time   `json:"taken"`
	Validators []Validator `json:"validators"`
}

// Tokens returns the stake vector in snapshot order.
func (s *Snapshot) Tokens() []float64 {
	tokens := make([]float64, len(s.Validators))
	for i, v := range s.Validators {
		tokens[i] = v.Tokens
	}
	return tokens
}

// Source fetches the live validator set of one network.
type Source interface {
	Name() string
	Fetch(ctx context.Context, c *http.Client) ([]Validator, error)
}

// Take fetches one snapshot and stamps it with the current time.
func Take(ctx context.Context, c *http.Client, src Source) (*Snapshot, error) {
	validators, err := src.Fetch(ctx, c)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Network:    src.Name(),
		Taken:      time.Now().UTC(),
		Validators: validators,
	}, nil
}

// AllSources returns every registered network source. The Dune API key is
// only needed by the ethereum source and may be empty when it is not
// scanned.
func AllSources(duneKey string) []Source {
	return []Source{
		NewEthereum(duneKey),
		NewCelestia(),
		NewAxelar(),
		NewCelo(),
		NewAptos(),
	}
}

// Networks lists the registered network names in registry order.
func Networks() []string {
	all := AllSources("")
	names := make([]string, len(all))
	for i, src := range all {
		names[i] = src.Name()
	}
	return names
}

// SelectSources resolves network names to sources; no names selects every
// registered network.
func SelectSources(names []string, duneKey string) ([]Source, error) {
	all := AllSources(duneKey)
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Source, len(all))
	for _, src := range all {
		byName[src.Name()] = src
	}
	selected := make([]Source, 0, len(names))
	for _, name := range names {
		src, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown network %q", name)
		}
		selected = append(selected, src)
	}
	return selected, nil
}

// sortByTokens orders validators by stake descending, address ascending on
// ties, so equal responses produce identical snapshots.
func sortByTokens(vs []Validator) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].Tokens != vs[j].Tokens {
			return vs[i].Tokens > vs[j].Tokens
		}
		return vs[i].Address < vs[j].Address
	})
}
