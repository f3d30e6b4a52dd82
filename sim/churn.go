package sim

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/destake/go-destake/destake"
)

// maxJoinsPerEpoch caps the admission retries of a single epoch. The join
// roll repeats after every success, so a probability of exactly 1 would
// otherwise admit peers forever.
const maxJoinsPerEpoch = 65536

// joinStake derives the stake a probabilistic newcomer starts with, from
// the current population per the policy. An empty ledger grants nothing.
func joinStake(l *Ledger, policy destake.JoinPolicy, rng *rand.Rand) float64 {
	if l.Len() == 0 {
		return 0
	}
	stakes := l.Stakes()
	switch policy {
	case destake.JoinAverage:
		return floats.Sum(stakes) / float64(len(stakes))
	case destake.JoinMax:
		return floats.Max(stakes)
	case destake.JoinMin:
		return floats.Min(stakes)
	case destake.JoinRandom:
		return stakes[rng.Intn(len(stakes))]
	default:
		return 0
	}
}

// tryJoin admits newcomers while the join roll keeps succeeding, deriving
// each stake before the next roll. Every admitted peer is independently
// marked corrupted with probability corruptFrac. Returns how many joined.
func tryJoin(l *Ledger, joinP float64, policy destake.JoinPolicy, corruptFrac float64, rng *rand.Rand) int {
	joined := 0
	for joined < maxJoinsPerEpoch && rng.Float64() <= joinP {
		stake := joinStake(l, policy, rng)
		corrupt := rng.Float64() <= corruptFrac
		l.Append(stake, corrupt)
		joined++
	}
	return joined
}

// tryLeave removes one uniformly chosen peer if the leave roll succeeds.
// At most one peer departs per epoch. Reports whether anyone left.
func tryLeave(l *Ledger, leaveP float64, rng *rand.Rand) bool {
	if l.Len() == 0 || rng.Float64() > leaveP {
		return false
	}
	l.RemoveAt(rng.Intn(l.Len()))
	return true
}
