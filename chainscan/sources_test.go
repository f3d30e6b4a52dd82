package chainscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name string
	vs   []Validator
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context, *http.Client) ([]Validator, error) {
	return s.vs, nil
}

func TestTake(t *testing.T) {
	src := stubSource{name: "stub", vs: []Validator{{Address: "a", Tokens: 1}}}

	snap, err := Take(context.Background(), http.DefaultClient, src)
	require.NoError(t, err)

	assert.Equal(t, "stub", snap.Network)
	assert.WithinDuration(t, time.Now().UTC(), snap.Taken, time.Minute)
	assert.Equal(t, src.vs, snap.Validators)
}

func TestEthereumFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Dune-API-Key"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"result":{"rows":[
			{"entity_just_name":"Lido","amount_staked":200.5},
			{"entity_just_name":"Coinbase","amount_staked":300},
			{"entity_just_name":"Lido","amount_staked":100}
		]}}`))
	}))
	defer srv.Close()

	src := NewEthereum("test-key")
	src.URL = srv.URL

	validators, err := src.Fetch(context.Background(), srv.Client())
	require.NoError(t, err)

	// entities grouped, amounts summed, sorted by stake
	assert.Equal(t, []Validator{
		{Address: "Lido", Tokens: 300.5},
		{Address: "Coinbase", Tokens: 300},
	}, validators)
}

func TestEthereumRequiresKey(t *testing.T) {
	src := NewEthereum("")

	_, err := src.Fetch(context.Background(), http.DefaultClient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestCelestiaFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"moniker":"small","tokens":10},{"moniker":"big","tokens":30}]`))
	}))
	defer srv.Close()

	src := NewCelestia()
	src.URL = srv.URL

	validators, err := src.Fetch(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, []Validator{
		{Address: "big", Tokens: 30},
		{Address: "small", Tokens: 10},
	}, validators)
}

func TestAxelarFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"round_state":{"validators":{"validators":[
			{"address":"axelar1aaa","voting_power":"10"},
			{"address":"axelar1bbb","voting_power":"30"}
		]}}}}`))
	}))
	defer srv.Close()

	src := NewAxelar()
	src.URL = srv.URL

	validators, err := src.Fetch(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, []Validator{
		{Address: "axelar1bbb", Tokens: 30},
		{Address: "axelar1aaa", Tokens: 10},
	}, validators)
}

func TestAxelarFetchBadPower(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"round_state":{"validators":{"validators":[
			{"address":"axelar1aaa","voting_power":"not-a-number"}
		]}}}}`))
	}))
	defer srv.Close()

	src := NewAxelar()
	src.URL = srv.URL

	_, err := src.Fetch(context.Background(), srv.Client())
	assert.Error(t, err)
}

func TestCeloFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"groups":{
			"0xg1":["Group One","25.5","extra"],
			"0xg2":["Group Two",125]
		}}`))
	}))
	defer srv.Close()

	src := NewCelo()
	src.URL = srv.URL

	validators, err := src.Fetch(context.Background(), srv.Client())
	require.NoError(t, err)

	// string and numeric vote counts both coerce
	assert.Equal(t, []Validator{
		{Address: "Group Two", Tokens: 125},
		{Address: "Group One", Tokens: 25.5},
	}, validators)
}

func TestCeloFetchMalformedGroup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"groups":{"0xg1":["only-a-name"]}}`))
	}))
	defer srv.Close()

	src := NewCelo()
	src.URL = srv.URL

	_, err := src.Fetch(context.Background(), srv.Client())
	assert.Error(t, err)
}

func TestAptosFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/stats"):
			w.Write([]byte(`[{"owner_address":"0xaaa"},{"owner_address":"0xbbb"}]`))
		case strings.Contains(r.URL.Path, "/accounts/0xaaa/"):
			w.Write([]byte(`{"data":{"active":{"value":"500"}}}`))
		case strings.Contains(r.URL.Path, "/accounts/0xbbb/"):
			w.Write([]byte(`{"data":{"active":{"value":"1500"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := NewAptos()
	src.StatsURL = srv.URL + "/stats"
	src.FullnodeURL = srv.URL
	src.Workers = 2

	validators, err := src.Fetch(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, []Validator{
		{Address: "0xbbb", Tokens: 1500},
		{Address: "0xaaa", Tokens: 500},
	}, validators)
}

func TestAptosFetchMissingPool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/stats") {
			w.Write([]byte(`[{"owner_address":"0xaaa"}]`))
			return
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	src := NewAptos()
	src.StatsURL = srv.URL + "/stats"
	src.FullnodeURL = srv.URL

	_, err := src.Fetch(context.Background(), srv.Client())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stake pool")
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewCelestia()
	src.URL = srv.URL

	_, err := src.Fetch(context.Background(), srv.Client())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

func TestFetchHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ethereum := NewEthereum("key")
	ethereum.URL = srv.URL
	celestia := NewCelestia()
	celestia.URL = srv.URL
	axelar := NewAxelar()
	axelar.URL = srv.URL
	celo := NewCelo()
	celo.URL = srv.URL
	aptos := NewAptos()
	aptos.StatsURL = srv.URL
	aptos.FullnodeURL = srv.URL

	for _, src := range []Source{ethereum, celestia, axelar, celo, aptos} {
		_, err := src.Fetch(ctx, srv.Client())
		assert.Error(t, err, src.Name())
	}
}

func TestNetworks(t *testing.T) {
	assert.Equal(t, []string{"ethereum", "celestia", "axelar", "celo", "aptos"}, Networks())
}

func TestSelectSources(t *testing.T) {
	all, err := SelectSources(nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	picked, err := SelectSources([]string{" Celo ", "aptos"}, "")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "celo", picked[0].Name())
	assert.Equal(t, "aptos", picked[1].Name())

	_, err = SelectSources([]string{"solana"}, "")
	assert.Error(t, err)
}

func TestSortByTokensTieBreak(t *testing.T) {
	vs := []Validator{{"b", 10}, {"a", 10}, {"c", 20}}

	sortByTokens(vs)

	assert.Equal(t, []Validator{{"c", 20}, {"a", 10}, {"b", 10}}, vs)
}
