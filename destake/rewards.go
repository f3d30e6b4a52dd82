package destake

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// ConstantReward splits a total emission budget evenly across all epochs.
func ConstantReward(totalReward float64, epochs idx.Epoch) float64 {
	return totalReward / float64(epochs)
}

// DynamicReward grows the per-epoch reward linearly as the run progresses:
// the even split plus a ramp proportional to how far into the run the
// current epoch is. Early producers earn close to the constant schedule,
// late producers up to the whole budget extra.
func DynamicReward(totalReward float64, epochs, current idx.Epoch) float64 {
	return totalReward/float64(epochs) + (float64(current)/float64(epochs))*totalReward
}
