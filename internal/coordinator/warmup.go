package coordinator

// WarmupSchedule computes, for each of nChains warmup chains, one MaxSize
// value used for the whole warmup run, and a PConnected value drawn once
// per chain. MaxSize ramps across warmupGroups tiers (by chain index modulo
// warmupGroups) from
// (initialSize+maxSize)/4 up to maxSize; the coldest chain (index 0)
// always uses the full maxSize so its final state is a faithful seed for
// production sampling.
type WarmupSchedule struct {
	maxSizeByChain    []int
	pConnectedByChain []float64
}

const warmupGroups = 4

// NewWarmupSchedule builds the per-chain MaxSize/PConnected values used
// throughout one warmup run.
func NewWarmupSchedule(nChains, initialSize, maxSize int, pConnectedBase float64, rng interface{ Float64() float64 }) *WarmupSchedule {
	start := float64(initialSize+maxSize) / 4
	span := float64(maxSize) - start

	maxSizeByChain := make([]int, nChains)
	pConnectedByChain := make([]float64, nChains)

	for c := 0; c < nChains; c++ {
		group := c % warmupGroups
		var frac float64
		if warmupGroups > 1 {
			frac = float64(group) / float64(warmupGroups-1)
		}
		maxSizeByChain[c] = int(start + frac*span)
		if c == 0 {
			maxSizeByChain[c] = maxSize
		}

		if rng.Float64() < 0.5 {
			pConnectedByChain[c] = 1.0
		} else {
			pConnectedByChain[c] = pConnectedBase
		}
	}

	return &WarmupSchedule{maxSizeByChain: maxSizeByChain, pConnectedByChain: pConnectedByChain}
}

// MaxSize returns chain c's warmup MaxSize.
func (w *WarmupSchedule) MaxSize(c int) int { return w.maxSizeByChain[c] }

// PConnected returns chain c's warmup PConnected.
func (w *WarmupSchedule) PConnected(c int) float64 { return w.pConnectedByChain[c] }
