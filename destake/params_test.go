package destake

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPresetsAreValid ensures every preset passes its own validation.
func TestPresetsAreValid(t *testing.T) {
	for name, params := range map[string]Params{
		"default": DefaultParams(),
		"bench":   BenchParams(),
		"smoke":   SmokeParams(),
	} {
		assert.NoError(t, params.Validate(), name)
	}
}

// TestDefaultParamsValues pins the baseline configuration.
func TestDefaultParamsValues(t *testing.T) {
	p := DefaultParams()
	assert.EqualValues(t, 50000, p.Epochs)
	assert.Equal(t, AlgoWeighted, p.Algo)
	assert.Equal(t, 10000.0, p.Volume)
	assert.Equal(t, DistGini, p.InitialDist)
	assert.Equal(t, 0.3, p.InitialGini)
	assert.Equal(t, 1000, p.Peers)
	assert.Equal(t, 20, p.Corrupted)
	assert.Equal(t, 0.5, p.FailP)
	assert.Equal(t, 0.001, p.JoinP)
	assert.Equal(t, 0.001, p.LeaveP)
	assert.Equal(t, JoinRandom, p.JoinStake)
	assert.Equal(t, 0.5, p.Penalty)
	assert.Equal(t, 0.3, p.Theta)
	assert.Equal(t, SmoothLinear, p.Smoothing)
	assert.Equal(t, 0.001, p.SmoothingRate)
	assert.Equal(t, 10.0, p.Reward)
	assert.Empty(t, p.ScheduledJoins)
	assert.False(t, p.CorruptedTracksRemoval)
}

// TestBenchParamsValues pins the overrides of the heavy profile.
func TestBenchParamsValues(t *testing.T) {
	p := BenchParams()
	assert.Equal(t, DistRandom, p.InitialDist)
	assert.Equal(t, 50000.0, p.Volume)
	assert.Equal(t, 10000, p.Peers)
	assert.Equal(t, 500, p.Corrupted)
	assert.Equal(t, 0.005, p.JoinP)
	assert.Equal(t, 0.005, p.LeaveP)
	assert.Equal(t, 50.0, p.Reward)
	// Untouched knobs stay at the default.
	assert.EqualValues(t, 50000, p.Epochs)
	assert.Equal(t, 0.5, p.FailP)
}

// TestValidateOrder verifies each invariant fires, and that with several
// violations present the first one in declaration order wins.
func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"epochs", func(p *Params) { p.Epochs = 0 }, "epochs"},
		{"initial gini", func(p *Params) { p.InitialGini = 1.5 }, "initial gini"},
		{"peers", func(p *Params) { p.Peers = 0 }, "peers"},
		{"corrupted", func(p *Params) { p.Corrupted = -1 }, "corrupted"},
		{"fail probability", func(p *Params) { p.FailP = -0.1 }, "fail probability"},
		{"join probability", func(p *Params) { p.JoinP = 2 }, "join probability"},
		{"leave probability", func(p *Params) { p.LeaveP = -1 }, "leave probability"},
		{"penalty", func(p *Params) { p.Penalty = 1.01 }, "penalty"},
		{"theta", func(p *Params) { p.Theta = -0.5 }, "theta"},
		{"smoothing rate", func(p *Params) { p.SmoothingRate = 0 }, "smoothing rate"},
		{"reward", func(p *Params) { p.Reward = 0 }, "reward"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() = %q, want mention of %q", err, tc.wantErr)
			}
		})
	}

	// Epochs is checked before gini, gini before peers.
	p := DefaultParams()
	p.Epochs = 0
	p.InitialGini = 7
	p.Peers = -3
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epochs")
}

// TestValidateReportsField verifies the typed error carries the offending
// field, surviving a round of wrapping.
func TestValidateReportsField(t *testing.T) {
	p := DefaultParams()
	p.Penalty = 2

	err := fmt.Errorf("loading run: %w", p.Validate())

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "penalty", cfgErr.Field)
	assert.Contains(t, cfgErr.Reason, "must be between 0 and 1")
}

// TestVolumeNotValidated pins that degenerate volumes pass validation, so
// all-zero ledger experiments remain possible.
func TestVolumeNotValidated(t *testing.T) {
	p := DefaultParams()
	p.Volume = 0
	assert.NoError(t, p.Validate())
	p.Volume = -5
	assert.NoError(t, p.Validate())
}

// TestParamsCopyIsDeep verifies the scheduled joins table is cloned.
func TestParamsCopyIsDeep(t *testing.T) {
	p := DefaultParams()
	p.ScheduledJoins = []ScheduledJoin{{Epoch: 10, Stake: 500}}

	cp := p.Copy()
	cp.ScheduledJoins[0].Stake = 999
	cp.Peers = 1

	assert.Equal(t, 500.0, p.ScheduledJoins[0].Stake, "original must not see the copy's mutation")
	assert.Equal(t, 1000, p.Peers)
}

// TestParamsString verifies the JSON dump parses back and carries enum
// names rather than raw ints.
func TestParamsString(t *testing.T) {
	p := DefaultParams()
	s := p.String()

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, "weighted", decoded["Algo"])
	assert.Equal(t, "gini", decoded["InitialDist"])
}
