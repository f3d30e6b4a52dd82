package chainscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// getJSON performs the request and decodes a 200 response body into v.
func getJSON(c *http.Client, req *http.Request, v interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// asFloat coerces the loosely typed token values some explorers return.
func asFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unexpected token value of type %T", v)
	}
}

// Ethereum reads the per-entity staking aggregation published through a
// Dune query. The rows carry one (entity, amount) pair per staking pool
// deposit group; amounts of the same entity are summed. The API key is the
// caller's own; there is no default.
type Ethereum struct {
	URL    string
	APIKey string
	Limit  int
}

func NewEthereum(apiKey string) *Ethereum {
	return &Ethereum{
		URL:    "https://api.dune.com/api/v1/query/3383110/results",
		APIKey: apiKey,
		Limit:  1000,
	}
}

func (e *Ethereum) Name() string { return "ethereum" }

func (e *Ethereum) Fetch(ctx context.Context, c *http.Client) ([]Validator, error) {
	if e.APIKey == "" {
		return nil, errors.New("ethereum: dune api key not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Dune-API-Key", e.APIKey)
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(e.Limit))
	req.URL.RawQuery = q.Encode()

	var body struct {
		Result struct {
			Rows []struct {
				Entity string  `json:"entity_just_name"`
				Amount float64 `json:"amount_staked"`
			} `json:"rows"`
		} `json:"result"`
	}
	if err := getJSON(c, req, &body); err != nil {
		return nil, fmt.Errorf("ethereum: %w", err)
	}

	staked := make(map[string]float64)
	for _, row := range body.Result.Rows {
		staked[row.Entity] += row.Amount
	}
	validators := make([]Validator, 0, len(staked))
	for entity, tokens := range staked {
		validators = append(validators, Validator{Address: entity, Tokens: tokens})
	}
	sortByTokens(validators)
	return validators, nil
}

// Celestia reads the explorers.guru validator list; monikers stand in for
// addresses.
type Celestia struct {
	URL string
}

func NewCelestia() *Celestia {
	return &Celestia{URL: "https://celestia.api.explorers.guru/api/v1/validators"}
}

func (s *Celestia) Name() string { return "celestia" }

func (s *Celestia) Fetch(ctx context.Context, c *http.Client) ([]Validator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	var body []struct {
		Moniker string  `json:"moniker"`
		Tokens  float64 `json:"tokens"`
	}
	if err := getJSON(c, req, &body); err != nil {
		return nil, fmt.Errorf("celestia: %w", err)
	}

	validators := make([]Validator, len(body))
	for i, v := range body {
		validators[i] = Validator{Address: v.Moniker, Tokens: v.Tokens}
	}
	sortByTokens(validators)
	return validators, nil
}

// Axelar reads the consensus dump of a public Tendermint RPC node; voting
// power stands in for stake.
type Axelar struct {
	URL string
}

func NewAxelar() *Axelar {
	return &Axelar{URL: "https://rpc-axelar.imperator.co/dump_consensus_state"}
}

func (s *Axelar) Name() string { return "axelar" }

func (s *Axelar) Fetch(ctx context.Context, c *http.Client) ([]Validator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Result struct {
			RoundState struct {
				Validators struct {
					Validators []struct {
						Address     string `json:"address"`
						VotingPower string `json:"voting_power"`
					} `json:"validators"`
				} `json:"validators"`
			} `json:"round_state"`
		} `json:"result"`
	}
	if err := getJSON(c, req, &body); err != nil {
		return nil, fmt.Errorf("axelar: %w", err)
	}

	raw := body.Result.RoundState.Validators.Validators
	validators := make([]Validator, len(raw))
	for i, v := range raw {
		power, err := strconv.ParseFloat(v.VotingPower, 64)
		if err != nil {
			return nil, fmt.Errorf("axelar: voting power of %s: %w", v.Address, err)
		}
		validators[i] = Validator{Address: v.Address, Tokens: power}
	}
	sortByTokens(validators)
	return validators, nil
}

// Celo reads the thecelo groups API. Each group entry is an array whose
// first element is the group name and second its votes.
type Celo struct {
	URL string
}

func NewCelo() *Celo {
	return &Celo{URL: "https://thecelo.com/api/v0.1?method=groups"}
}

func (s *Celo) Name() string { return "celo" }

func (s *Celo) Fetch(ctx context.Context, c *http.Client) ([]Validator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Groups map[string][]interface{} `json:"groups"`
	}
	if err := getJSON(c, req, &body); err != nil {
		return nil, fmt.Errorf("celo: %w", err)
	}

	validators := make([]Validator, 0, len(body.Groups))
	for key, group := range body.Groups {
		if len(group) < 2 {
			return nil, fmt.Errorf("celo: malformed group entry %q", key)
		}
		name, ok := group[0].(string)
		if !ok {
			return nil, fmt.Errorf("celo: malformed group name in %q", key)
		}
		tokens, err := asFloat(group[1])
		if err != nil {
			return nil, fmt.Errorf("celo: votes of %q: %w", key, err)
		}
		validators = append(validators, Validator{Address: name, Tokens: tokens})
	}
	sortByTokens(validators)
	return validators, nil
}

// Aptos lists validator owners from the explorer stats dump, then resolves
// each owner's active stake from its on-chain StakePool resource. The
// per-owner lookups fan out over a bounded worker pool.
type Aptos struct {
	StatsURL    string
	FullnodeURL string
	Workers     int
}

func NewAptos() *Aptos {
	return &Aptos{
		StatsURL:    "https://storage.googleapis.com/aptos-mainnet/explorer/validator_stats_v2.json?cache-version=0",
		FullnodeURL: "https://fullnode.mainnet.aptoslabs.com",
		Workers:     8,
	}
}

func (s *Aptos) Name() string { return "aptos" }

func (s *Aptos) Fetch(ctx context.Context, c *http.Client) ([]Validator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.StatsURL, nil)
	if err != nil {
		return nil, err
	}

	var stats []struct {
		Owner string `json:"owner_address"`
	}
	if err := getJSON(c, req, &stats); err != nil {
		return nil, fmt.Errorf("aptos: %w", err)
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	validators := make([]Validator, len(stats))
	errs := make([]error, len(stats))

	var wg sync.WaitGroup
	for i, v := range stats {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			tokens, err := s.stakePool(ctx, c, owner)
			validators[i] = Validator{Address: owner, Tokens: tokens}
			errs[i] = err
		}(i, v.Owner)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("aptos: stake pool of %s: %w", stats[i].Owner, err)
		}
	}
	sortByTokens(validators)
	return validators, nil
}

// stakePool resolves the active stake of one owner account.
func (s *Aptos) stakePool(ctx context.Context, c *http.Client, owner string) (float64, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/resource/0x1::stake::StakePool", s.FullnodeURL, owner)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	var body struct {
		Data struct {
			Active struct {
				Value string `json:"value"`
			} `json:"active"`
		} `json:"data"`
	}
	if err := getJSON(c, req, &body); err != nil {
		return 0, err
	}
	if body.Data.Active.Value == "" {
		return 0, errors.New("missing active stake value")
	}
	return strconv.ParseFloat(body.Data.Active.Value, 64)
}
