package sim

// Result holds the per-epoch histories of one run. All four slices are
// exactly as long as the run had epochs, every entry measured after that
// epoch's churn settled and before the block outcome was applied, except
// PeerCount which is the population at the very end of the epoch.
type Result struct {
	InitialGini float64 `json:"initialGini"`

	Gini      []float64 `json:"gini"`
	Nakamoto  []int     `json:"nakamoto"`
	HHI       []float64 `json:"hhi"`
	PeerCount []int     `json:"peerCount"`
}

// Snapshot is the state of a single epoch, pulled out of the histories.
type Snapshot struct {
	Gini     float64 `json:"gini"`
	Nakamoto int     `json:"nakamoto"`
	HHI      float64 `json:"hhi"`
	Peers    int     `json:"peers"`
}

// Len returns the number of recorded epochs.
func (r *Result) Len() int {
	return len(r.Gini)
}

// At returns the snapshot of epoch i.
func (r *Result) At(i int) Snapshot {
	return Snapshot{
		Gini:     r.Gini[i],
		Nakamoto: r.Nakamoto[i],
		HHI:      r.HHI[i],
		Peers:    r.PeerCount[i],
	}
}

// Final returns the last recorded snapshot, or a zero snapshot for an
// empty result.
func (r *Result) Final() Snapshot {
	if r.Len() == 0 {
		return Snapshot{}
	}
	return r.At(r.Len() - 1)
}
