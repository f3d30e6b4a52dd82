package sim

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"

	"github.com/destake/go-destake/utils/bitset"
)

// weightResolution is the integer weight the whole ledger maps to when
// exported as a lachesis validator set. pos.Weight and the set's total are
// uint32, so the scale targets the sum rather than the maximum: the total
// stays near 2^30 whatever the population size.
const weightResolution = 1 << 30

// Ledger owns the peer population of one run: the stake vector, a stable
// handle per peer and the corruption marks.
//
// Positions are dense and shift left on removal, exactly like the histories
// everyone indexes by. Handles never shift: a peer keeps its ID from
// admission to departure, which is what makes the corrected corruption mode
// and the validator-set export possible.
//
// Corruption marks live in one of two modes, fixed at construction:
//
//   - position-keyed (tracksRemoval=false): marks attach to positions and
//     are never dropped or re-indexed on removal. When a peer below a
//     marked position departs, the mark silently lands on the next peer
//     that shifts into it. This reproduces the long-standing behavior of
//     the original model, and long churny runs drift accordingly.
//   - peer-keyed (tracksRemoval=true): marks attach to the peer itself,
//     travel with it across shifts and vanish when it leaves.
type Ledger struct {
	stakes []float64
	ids    []idx.ValidatorID
	nextID idx.ValidatorID

	tracksRemoval bool
	markedPos     bitset.Set // position-keyed marks, never shrink
	markedPeer    []bool     // peer-keyed marks, parallel to stakes
}

// NewLedger builds a ledger from the initial stakes and the positions of
// the initially corrupted peers. The input slices are copied, never
// retained. Corrupted positions outside the ledger are rejected.
func NewLedger(stakes []float64, corrupted []int, tracksRemoval bool) (*Ledger, error) {
	l := &Ledger{
		stakes:        make([]float64, len(stakes)),
		ids:           make([]idx.ValidatorID, len(stakes)),
		nextID:        1,
		tracksRemoval: tracksRemoval,
	}
	copy(l.stakes, stakes)
	for i := range l.ids {
		l.ids[i] = l.nextID
		l.nextID++
	}
	if tracksRemoval {
		l.markedPeer = make([]bool, len(stakes))
	}
	for _, at := range corrupted {
		if at < 0 || at >= len(stakes) {
			return nil, fmt.Errorf("corrupted position %d out of range, ledger holds %d peers", at, len(stakes))
		}
		if tracksRemoval {
			l.markedPeer[at] = true
		} else {
			l.markedPos.Set(at)
		}
	}
	return l, nil
}

// Len returns the current number of peers.
func (l *Ledger) Len() int {
	return len(l.stakes)
}

// Stakes returns the live stake vector. The slice is owned by the ledger:
// callers may read it freely but must not mutate it or retain it across
// Append/RemoveAt.
func (l *Ledger) Stakes() []float64 {
	return l.stakes
}

// Append admits a peer with the given stake at the end of the ledger,
// optionally marked corrupted.
func (l *Ledger) Append(stake float64, corrupt bool) {
	l.stakes = append(l.stakes, stake)
	l.ids = append(l.ids, l.nextID)
	l.nextID++
	if l.tracksRemoval {
		l.markedPeer = append(l.markedPeer, corrupt)
	} else if corrupt {
		l.markedPos.Set(len(l.stakes) - 1)
	}
}

// RemoveAt drops the peer at the given position; later peers shift one
// position left. In the position-keyed mode the corruption marks stay
// where they are. The position must be valid.
func (l *Ledger) RemoveAt(at int) {
	l.stakes = append(l.stakes[:at], l.stakes[at+1:]...)
	l.ids = append(l.ids[:at], l.ids[at+1:]...)
	if l.tracksRemoval {
		l.markedPeer = append(l.markedPeer[:at], l.markedPeer[at+1:]...)
	}
}

// IsCorrupted reports whether the peer currently at the given position
// carries a corruption mark.
func (l *Ledger) IsCorrupted(at int) bool {
	if l.tracksRemoval {
		return l.markedPeer[at]
	}
	return l.markedPos.Has(at)
}

// CorruptedCount returns the number of positions currently carrying a
// mark. In the position-keyed mode, marks beyond the ledger's end exist
// but match no peer and are not counted.
func (l *Ledger) CorruptedCount() int {
	if l.tracksRemoval {
		n := 0
		for _, marked := range l.markedPeer {
			if marked {
				n++
			}
		}
		return n
	}
	return l.markedPos.CountBelow(len(l.stakes))
}

// ID returns the stable handle of the peer currently at the given position.
func (l *Ledger) ID(at int) idx.ValidatorID {
	return l.ids[at]
}

// Reward credits the peer at the given position.
func (l *Ledger) Reward(at int, amount float64) {
	l.stakes[at] += amount
}

// Slash burns a fraction of the stake of the peer at the given position.
func (l *Ledger) Slash(at int, fraction float64) {
	l.stakes[at] *= 1 - fraction
}

// Validators exports the ledger as a lachesis validator set, stakes scaled
// so the whole population sums to the weight resolution. Positive stakes
// too small for the resolution keep the minimum weight of 1 so they stay in
// the set; zero stakes are left out by the builder.
func (l *Ledger) Validators() *pos.Validators {
	total := 0.0
	for _, s := range l.stakes {
		if s > 0 {
			total += s
		}
	}

	weights := make([]pos.Weight, len(l.stakes))
	if total > 0 {
		for i, s := range l.stakes {
			if s <= 0 {
				continue
			}
			w := pos.Weight(s / total * weightResolution)
			if w == 0 {
				w = 1
			}
			weights[i] = w
		}
	}

	ids := make([]idx.ValidatorID, len(l.ids))
	copy(ids, l.ids)
	return pos.ArrayToValidators(ids, weights)
}
