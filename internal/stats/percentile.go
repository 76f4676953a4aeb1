package stats

import (
	"math"
	"slices"
)

// Interval is a percentile confidence interval. Lower <= Upper always holds.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns Upper - Lower.
func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

// Contains reports whether x lies inside the closed interval.
func (iv Interval) Contains(x float64) bool {
	return x >= iv.Lower && x <= iv.Upper
}

// PercentileInterval returns the central interval of dist covering level
// percent of it: the alpha/2 and 100-alpha/2 percentiles, alpha = 100-level.
// dist is not modified.
func PercentileInterval(dist []float64, level float64) (Interval, error) {
	if len(dist) == 0 {
		return Interval{}, &InsufficientDataError{Group: "distribution"}
	}
	if err := validateLevel(level); err != nil {
		return Interval{}, err
	}

	sorted := slices.Clone(dist)
	slices.Sort(sorted)

	return intervalSorted(sorted, level), nil
}

// Percentile returns the p-th percentile (0 <= p <= 100) of xs, interpolating
// linearly between the closest ranks. It returns NaN for an empty slice.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	return percentileSorted(sorted, p)
}

func intervalSorted(sorted []float64, level float64) Interval {
	alpha := 100 - level
	return Interval{
		Lower: percentileSorted(sorted, alpha/2),
		Upper: percentileSorted(sorted, 100-alpha/2),
	}
}

func percentileSorted(sorted []float64, p float64) float64 {
	p = max(0, min(100, p))

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
