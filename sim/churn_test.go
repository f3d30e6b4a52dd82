package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destake/go-destake/destake"
)

func TestJoinStakePolicies(t *testing.T) {
	l, err := NewLedger([]float64{10, 40, 25}, nil, false)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, 25.0, joinStake(l, destake.JoinAverage, rng))
	assert.Equal(t, 40.0, joinStake(l, destake.JoinMax, rng))
	assert.Equal(t, 10.0, joinStake(l, destake.JoinMin, rng))
	assert.Contains(t, []float64{10, 40, 25}, joinStake(l, destake.JoinRandom, rng))
	assert.Equal(t, 0.0, joinStake(l, destake.JoinPolicy(99), rng))

	empty, err := NewLedger(nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, joinStake(empty, destake.JoinAverage, rng))
}

func TestTryJoinNever(t *testing.T) {
	l, err := NewLedger([]float64{1, 2}, nil, false)
	require.NoError(t, err)

	joined := tryJoin(l, 0, destake.JoinAverage, 0, rand.New(rand.NewSource(5)))

	assert.Equal(t, 0, joined)
	assert.Equal(t, 2, l.Len())
}

func TestTryJoinStopsAtCap(t *testing.T) {
	l, err := NewLedger([]float64{1}, nil, false)
	require.NoError(t, err)

	joined := tryJoin(l, 1, destake.JoinMax, 0, rand.New(rand.NewSource(5)))

	assert.Equal(t, maxJoinsPerEpoch, joined)
	assert.Equal(t, 1+maxJoinsPerEpoch, l.Len())
}

func TestTryJoinAppliesPolicy(t *testing.T) {
	l, err := NewLedger([]float64{2, 8}, nil, false)
	require.NoError(t, err)

	joined := tryJoin(l, 1, destake.JoinAverage, 0, rand.New(rand.NewSource(3)))

	require.Equal(t, maxJoinsPerEpoch, joined)
	for at := 2; at < l.Len(); at++ {
		assert.Equal(t, 5.0, l.Stakes()[at], "newcomer stake follows the policy")
	}
}

func TestTryJoinCorruptionShare(t *testing.T) {
	t.Run("full corruption marks every newcomer", func(t *testing.T) {
		l, err := NewLedger([]float64{1, 2}, nil, false)
		require.NoError(t, err)

		joined := tryJoin(l, 1, destake.JoinMin, 1, rand.New(rand.NewSource(9)))

		assert.Equal(t, joined, l.CorruptedCount())
	})

	t.Run("zero corruption marks nobody", func(t *testing.T) {
		l, err := NewLedger([]float64{1, 2}, nil, false)
		require.NoError(t, err)

		tryJoin(l, 1, destake.JoinMin, 0, rand.New(rand.NewSource(9)))

		assert.Equal(t, 0, l.CorruptedCount())
	})
}

func TestTryLeave(t *testing.T) {
	l, err := NewLedger([]float64{1, 2, 3}, nil, false)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(11))

	assert.True(t, tryLeave(l, 1, rng), "certain roll removes a peer")
	assert.Equal(t, 2, l.Len())

	assert.False(t, tryLeave(l, 0, rng), "impossible roll removes nobody")
	assert.Equal(t, 2, l.Len())
}

func TestTryLeaveEmptyConsumesNoRoll(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))

	l, err := NewLedger(nil, nil, false)
	require.NoError(t, err)
	assert.False(t, tryLeave(l, 1, a))

	// the short-circuit must not desync the stream
	assert.Equal(t, b.Float64(), a.Float64())
}
