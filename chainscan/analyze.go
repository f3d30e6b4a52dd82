package chainscan

import (
	"math"

	"github.com/Fantom-foundation/lachesis-base/inter/pos"

	"github.com/destake/go-destake/metrics"
	"github.com/destake/go-destake/sim"
	"github.com/destake/go-destake/utils/sampling"
)

// Transformed scores a reweighted copy of the validator set.
type Transformed struct {
	Gini     float64 `json:"gini"`
	Nakamoto int     `json:"nakamoto"`
	HHI      float64 `json:"hhi"`
}

// Analysis scores one snapshot: the raw concentration coefficients, the
// same coefficients under the candidate reweighting families, and the
// lachesis quorum geometry of the set.
type Analysis struct {
	Network          string         `json:"network"`
	Validators       int            `json:"validators"`
	Gini             float64        `json:"gini"`
	HHI              float64        `json:"hhi"`
	HHINormalized    float64        `json:"hhiNormalized"`
	Nakamoto         map[string]int `json:"nakamoto"`
	Decentralization float64        `json:"decentralization"`

	// What each reweighting family would make of the same set. The dynamic
	// power exponent follows the live inequality: p = clamp(1-Gini, 0, 1).
	PowerExponent float64     `json:"powerExponent"`
	SRSW          Transformed `json:"srsw"`
	Log           Transformed `json:"log"`
	DESW          Transformed `json:"desw"`

	// Quorum weight of the set exported as lachesis validators, and how
	// many of the largest validators it takes to reach it.
	QuorumWeight pos.Weight `json:"quorumWeight"`
	QuorumSize   int        `json:"quorumSize"`
}

// Analyze scores a snapshot. It never fails: degenerate sets score zero.
func Analyze(s *Snapshot) *Analysis {
	tokens := s.Tokens()
	g := metrics.Gini(tokens)
	p := sampling.Clamp(1-g, 0, 1)

	a := &Analysis{
		Network:          s.Network,
		Validators:       len(tokens),
		Gini:             g,
		HHI:              metrics.HHI(tokens),
		HHINormalized:    metrics.HHINormalized(tokens),
		Nakamoto:         metrics.NakamotoAnalysis(tokens),
		Decentralization: metrics.DecentralizationScore(tokens),
		PowerExponent:    p,
		SRSW:             transformed(tokens, math.Sqrt),
		Log:              transformed(tokens, math.Log1p),
		DESW: transformed(tokens, func(v float64) float64 {
			return math.Pow(v, p)
		}),
	}

	if len(tokens) > 0 {
		if ledger, err := sim.NewLedger(tokens, nil, false); err == nil {
			set := ledger.Validators()
			a.QuorumWeight = set.Quorum()
			a.QuorumSize = quorumSize(set)
		}
	}
	return a
}

// transformed reweights the stake vector and scores the result.
func transformed(tokens []float64, f func(float64) float64) Transformed {
	reweighted := make([]float64, len(tokens))
	for i, v := range tokens {
		reweighted[i] = f(v)
	}
	return Transformed{
		Gini:     metrics.Gini(reweighted),
		Nakamoto: metrics.Nakamoto(reweighted),
		HHI:      metrics.HHI(reweighted),
	}
}

// quorumSize counts the largest validators needed to reach quorum.
func quorumSize(v *pos.Validators) int {
	quorum := v.Quorum()
	var acc pos.Weight
	for i, id := range v.SortedIDs() {
		acc += v.Get(id)
		if acc >= quorum {
			return i + 1
		}
	}
	return int(v.Len())
}
