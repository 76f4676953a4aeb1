package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paceboot/paceboot/internal/stats"
)

func fixedResult() *stats.Result {
	return &stats.Result{
		A:               stats.Group{N: 8, Mean: 2.759, CI: stats.Interval{Lower: 2.68, Upper: 2.84}},
		B:               stats.Group{N: 10, Mean: 3.155, CI: stats.Interval{Lower: 3.07, Upper: 3.24}},
		ObservedDiff:    0.396,
		PValue:          0.0012,
		NullCI:          stats.Interval{Lower: -0.221, Upper: 0.219},
		Resamples:       1000,
		ConfidenceLevel: 95,
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, DefaultLabels, fixedResult()))

	want := `**Bootstrap Summary**
- Mean (Friend): 2.759 m/s
- 95% CI (Friend): (2.680, 2.840)
- Mean (Mine): 3.155 m/s
- 95% CI (Mine): (3.070, 3.240)
- Observed Difference: 0.396 m/s

**Permutation Test (No Difference)**
- P-value (from null distribution): 0.0012
- 95% CI (Null): (-0.221, 0.219)
`
	assert.Equal(t, want, buf.String())
}

func TestVerdict(t *testing.T) {
	res := fixedResult()
	assert.Equal(t, "Mine is significantly faster than Friend (p = 0.0012 < 0.05)", Verdict(DefaultLabels, res, 0.05))

	res.ObservedDiff = -0.396
	assert.Contains(t, Verdict(DefaultLabels, res, 0.05), "slower")

	res.PValue = 0.4
	assert.True(t, strings.HasPrefix(Verdict(DefaultLabels, res, 0.05), "No significant difference"))
}

func TestFormatLevel(t *testing.T) {
	assert.Equal(t, "95", FormatLevel(95))
	assert.Equal(t, "97.5", FormatLevel(97.5))
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, bins, 5)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 11, total)

	assert.InDelta(t, 0.0, bins[0].Lower, 1e-12)
	assert.InDelta(t, 10.0, bins[4].Upper, 1e-12)
	assert.Equal(t, 2, bins[0].Count)
	assert.Equal(t, 3, bins[4].Count, "maximum falls into the last bin")
	assert.InDelta(t, 1.0, bins[0].Center(), 1e-12)
}

func TestHistogram_Degenerate(t *testing.T) {
	bins := Histogram([]float64{5, 5, 5}, 3)
	require.Len(t, bins, 3)
	assert.Equal(t, 3, bins[0].Count+bins[1].Count+bins[2].Count)

	assert.Nil(t, Histogram(nil, 3))
	assert.Nil(t, Histogram([]float64{1}, 0))
}

func TestSharedHistogram(t *testing.T) {
	ha, hb := SharedHistogram([]float64{0, 1}, []float64{9, 10}, 10)
	require.Len(t, ha, 10)
	require.Len(t, hb, 10)

	for i := range ha {
		assert.Equal(t, ha[i].Lower, hb[i].Lower)
	}
	assert.Equal(t, 1, ha[0].Count)
	assert.Equal(t, 2, hb[9].Count)
}

func TestRenderCharts(t *testing.T) {
	res, err := stats.Compare(context.Background(), stats.NewRand(1),
		[]float64{2.6, 2.8, 2.7, 2.9}, []float64{3.0, 3.2, 3.1},
		stats.Options{Resamples: 500, ConfidenceLevel: 95})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderCharts(&buf, DefaultLabels, res))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Bootstrap Means: Mine vs Friend")
	assert.Contains(t, html, "Null Distribution (Assuming No Difference)")
	assert.Contains(t, html, "markLine")
	assert.Contains(t, html, "Friend mean")
	assert.Contains(t, html, "Mine 95% CI upper")
	assert.Contains(t, html, "Observed")
}

func TestBinIndex(t *testing.T) {
	bins := Histogram([]float64{0, 10}, 10)

	tests := []struct {
		v    float64
		want int
	}{
		{-3, 0},
		{0, 0},
		{0.99, 0},
		{1, 1},
		{5.5, 5},
		{10, 9},
		{42, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BinIndex(bins, tt.v), "value %v", tt.v)
	}

	assert.Equal(t, -1, BinIndex(nil, 1))
}
