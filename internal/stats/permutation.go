package stats

import (
	"math"
	"math/rand/v2"
	"slices"
)

// tieTolerance is the relative slack under which a null difference counts as
// equal to the observed one. Differences that tie in exact arithmetic can
// come out a few ulps apart once summed in another order.
const tieTolerance = 1e-9

// permutationDraw returns the difference of surrogate group means after a
// fresh random relabeling of pooled: the first sizeA positions of an index
// permutation form surrogate A, the rest surrogate B. pooled is only read.
//
// Each surrogate is summed in pooled order, so the partition that reproduces
// the original groups yields the observed difference bit for bit.
func permutationDraw(pooled []float64, sizeA int) func() drawFunc {
	return func() drawFunc {
		idx := make([]int, len(pooled))
		surrogate := make([]float64, len(pooled))
		return func(r *rand.Rand) float64 {
			for i := range idx {
				idx[i] = i
			}
			r.Shuffle(len(idx), func(i, j int) {
				idx[i], idx[j] = idx[j], idx[i]
			})
			slices.Sort(idx[:sizeA])
			slices.Sort(idx[sizeA:])
			for i, k := range idx {
				surrogate[i] = pooled[k]
			}
			return mean(surrogate[sizeA:]) - mean(surrogate[:sizeA])
		}
	}
}

// pValue is the fraction of null differences at least as extreme, in
// absolute value, as observed. scale is the largest magnitude among the
// pooled observations and sizes the tie tolerance.
func pValue(null []float64, observed, scale float64) float64 {
	observed = math.Abs(observed)
	threshold := observed - tieTolerance*max(1, observed, scale)

	extreme := 0
	for _, d := range null {
		if math.Abs(d) >= threshold {
			extreme++
		}
	}

	return float64(extreme) / float64(len(null))
}
