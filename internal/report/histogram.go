package report

import "slices"

// DefaultBins is the number of histogram bins used for charts.
const DefaultBins = 30

// Bin is one equal-width histogram bucket, closed on the left. The last bin
// of a histogram is also closed on the right.
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Center returns the midpoint of the bin.
func (b Bin) Center() float64 {
	return (b.Lower + b.Upper) / 2
}

// Histogram buckets values into bins equal-width bins spanning their range.
func Histogram(values []float64, bins int) []Bin {
	edges := binEdges(values, nil, bins)
	if edges == nil {
		return nil
	}
	return countInto(edges, values)
}

// SharedHistogram buckets a and b on common edges so they can be overlaid.
func SharedHistogram(a, b []float64, bins int) (ha, hb []Bin) {
	edges := binEdges(a, b, bins)
	if edges == nil {
		return nil, nil
	}
	return countInto(edges, a), countInto(edges, b)
}

// BinIndex returns the index of the bin holding v. Values outside the
// histogram go to the nearest end bin; an empty histogram gives -1.
func BinIndex(bins []Bin, v float64) int {
	if len(bins) == 0 {
		return -1
	}
	for i, b := range bins {
		if v < b.Upper {
			return i
		}
	}
	return len(bins) - 1
}

func binEdges(a, b []float64, bins int) []float64 {
	if bins < 1 || len(a)+len(b) == 0 {
		return nil
	}

	all := append(slices.Clone(a), b...)
	lo, hi := slices.Min(all), slices.Max(all)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	return edges
}

func countInto(edges, values []float64) []Bin {
	bins := len(edges) - 1
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: edges[i], Upper: edges[i+1]}
	}

	lo, hi := edges[0], edges[bins]
	width := (hi - lo) / float64(bins)
	for _, v := range values {
		i := int((v - lo) / width)
		i = max(0, min(bins-1, i))
		out[i].Count++
	}

	return out
}
