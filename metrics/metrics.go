// Package metrics computes wealth-concentration measures over stake vectors.
//
// All functions are pure: they never mutate their input, consume no
// randomness, and return plain numbers, so the same vector always yields the
// same measurement. The simulation loop, the benchmark harness and the live
// chain analysis all report through this one package.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultNakamotoThreshold is the fraction of total stake an attacker
// coalition needs for the classic Nakamoto coefficient. 51% rather than a
// strict majority, matching the common convention for PoS takeover analysis.
const DefaultNakamotoThreshold = 0.51

// nakamotoThresholds are the fractions reported by NakamotoAnalysis, keyed by
// their display label.
var nakamotoThresholds = map[string]float64{
	"25%": 0.25,
	"33%": 0.33,
	"50%": 0.50,
	"51%": 0.51,
	"66%": 0.66,
	"75%": 0.75,
}

// Gini returns the Gini coefficient of the stake vector: 0 for perfect
// equality, approaching 1 as stake concentrates in a single holder.
//
// The computation walks the ascending-sorted vector and accumulates the area
// under the Lorenz curve by trapezoids: each holder contributes its cumulative
// fraction minus half its own share. Empty and zero-total vectors measure 0.
func Gini(stakes []float64) float64 {
	if len(stakes) == 0 {
		return 0
	}
	total := floats.Sum(stakes)
	if total == 0 {
		return 0
	}

	sorted := make([]float64, len(stakes))
	copy(sorted, stakes)
	sort.Float64s(sorted)

	var cum, lorenz float64
	for _, s := range sorted {
		cum += s
		lorenz += cum/total - 0.5*(s/total)
	}
	return 1 - 2*lorenz/float64(len(stakes))
}

// Nakamoto returns the Nakamoto coefficient at DefaultNakamotoThreshold: the
// minimum number of holders that together control 51% of all stake.
func Nakamoto(stakes []float64) int {
	return NakamotoAt(stakes, DefaultNakamotoThreshold)
}

// NakamotoAt returns the minimum number of holders whose combined stake
// reaches threshold*total, counting from the richest down. Empty and
// zero-total vectors measure 0. If the cumulative sum never reaches the
// target (possible with negative entries) every holder is needed.
func NakamotoAt(stakes []float64, threshold float64) int {
	if len(stakes) == 0 {
		return 0
	}
	total := floats.Sum(stakes)
	if total == 0 {
		return 0
	}

	sorted := make([]float64, len(stakes))
	copy(sorted, stakes)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	target := threshold * total
	var cum float64
	for i, s := range sorted {
		cum += s
		if cum >= target {
			return i + 1
		}
	}
	return len(stakes)
}

// NakamotoAnalysis evaluates the Nakamoto coefficient at the standard ladder
// of takeover thresholds (25% through 75%). The keys of the returned map are
// the display labels ("25%", ..., "75%"). Empty input yields an empty map.
func NakamotoAnalysis(stakes []float64) map[string]int {
	out := make(map[string]int, len(nakamotoThresholds))
	if len(stakes) == 0 {
		return out
	}
	for label, threshold := range nakamotoThresholds {
		out[label] = NakamotoAt(stakes, threshold)
	}
	return out
}

// positiveShares filters out non-positive and NaN entries and returns the
// remaining stakes as fractions of their total. ok is false when nothing
// usable remains.
func positiveShares(stakes []float64) (shares []float64, ok bool) {
	filtered := make([]float64, 0, len(stakes))
	for _, s := range stakes {
		if s > 0 && !math.IsNaN(s) {
			filtered = append(filtered, s)
		}
	}
	total := floats.Sum(filtered)
	if total == 0 {
		return nil, false
	}
	floats.Scale(1/total, filtered)
	return filtered, true
}

// HHI returns the Herfindahl-Hirschman index: the sum of squared stake
// shares. 1/n for a uniform vector, 1.0 for a monopoly. Non-positive and NaN
// entries are ignored; 0 when nothing usable remains.
func HHI(stakes []float64) float64 {
	shares, ok := positiveShares(stakes)
	if !ok {
		return 0
	}
	var hhi float64
	for _, share := range shares {
		hhi += share * share
	}
	return hhi
}

// HHINormalized rescales HHI to [0, 1] so that a uniform vector measures 0
// regardless of its size: (HHI - 1/n) / (1 - 1/n) over the n usable entries.
// With fewer than two usable entries the raw HHI is returned unchanged.
func HHINormalized(stakes []float64) float64 {
	shares, ok := positiveShares(stakes)
	if !ok {
		return 0
	}
	var hhi float64
	for _, share := range shares {
		hhi += share * share
	}
	n := float64(len(shares))
	if n > 1 {
		return (hhi - 1/n) / (1 - 1/n)
	}
	return hhi
}

// DecentralizationScore normalizes the 51% Nakamoto coefficient by the
// population size: (n - nc) / (n - 1). The score is 0 when takeover needs
// every holder and 1 when a single holder already controls the threshold;
// despite the name, larger values mean fewer holders are needed.
// Empty and singleton vectors score 0.
func DecentralizationScore(stakes []float64) float64 {
	n := len(stakes)
	if n <= 1 {
		return 0
	}
	nc := Nakamoto(stakes)
	return float64(n-nc) / float64(n-1)
}
