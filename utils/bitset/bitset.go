package bitset

// This package implements a growable bit set addressed by dense
// non-negative positions.
//
// Use Case:
// - Marking positions of an append-mostly population (one bit per position
//   instead of a map entry).
// - Counting marks below a moving population boundary.

import "math/bits"

// wordBits is the width of one backing word.
const wordBits = 64

// Set is a growable bit set. The zero value is an empty set ready to use.
type Set struct {
	words []uint64
}

// Set marks position i, growing the backing storage as needed. The position
// must be non-negative.
func (s *Set) Set(i int) {
	w := i / wordBits
	for len(s.words) <= w {
		s.words = append(s.words, 0)
	}
	s.words[w] |= 1 << uint(i%wordBits)
}

// Has reports whether position i is marked. Positions outside the backing
// storage, negative ones included, are unmarked.
func (s *Set) Has(i int) bool {
	if i < 0 {
		return false
	}
	w := i / wordBits
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<uint(i%wordBits)) != 0
}

// Count returns the total number of marked positions.
func (s *Set) Count() int {
	count := 0
	for _, w := range s.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// CountBelow returns the number of marked positions in [0, n).
func (s *Set) CountBelow(n int) int {
	if n <= 0 {
		return 0
	}
	full := n / wordBits
	if full > len(s.words) {
		full = len(s.words)
	}
	count := 0
	for _, w := range s.words[:full] {
		count += bits.OnesCount64(w)
	}
	if rem := n % wordBits; rem > 0 && full < len(s.words) {
		mask := uint64(1)<<uint(rem) - 1
		count += bits.OnesCount64(s.words[full] & mask)
	}
	return count
}
