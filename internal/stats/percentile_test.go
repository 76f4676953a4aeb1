package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	t.Parallel()

	values := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{name: "minimum", p: 0, want: 1},
		{name: "lower_quartile", p: 25, want: 2},
		{name: "median", p: 50, want: 3},
		{name: "interpolated", p: 10, want: 1.4},
		{name: "interpolated_upper", p: 97.5, want: 4.9},
		{name: "maximum", p: 100, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.want, Percentile(values, tt.p), 1e-12)
		})
	}
}

func TestPercentile_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestPercentileInterval_WidensWithLevel(t *testing.T) {
	t.Parallel()

	dist, err := BootstrapMeans(NewRand(5), []float64{2.1, 2.9, 3.3, 3.8, 2.4, 3.1}, 4000)
	require.NoError(t, err)

	ci90, err := PercentileInterval(dist, 90)
	require.NoError(t, err)
	ci95, err := PercentileInterval(dist, 95)
	require.NoError(t, err)
	ci99, err := PercentileInterval(dist, 99)
	require.NoError(t, err)

	for _, ci := range []Interval{ci90, ci95, ci99} {
		assert.LessOrEqual(t, ci.Lower, ci.Upper)
	}

	assert.GreaterOrEqual(t, ci99.Width(), ci95.Width())
	assert.GreaterOrEqual(t, ci95.Width(), ci90.Width())
	assert.LessOrEqual(t, ci99.Lower, ci95.Lower)
	assert.GreaterOrEqual(t, ci99.Upper, ci95.Upper)
}

func TestPercentileInterval_DoesNotSortInput(t *testing.T) {
	t.Parallel()

	dist := []float64{3, 1, 2}

	ci, err := PercentileInterval(dist, 50)
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 1, 2}, dist)
	assert.InDelta(t, 1.5, ci.Lower, 1e-12)
	assert.InDelta(t, 2.5, ci.Upper, 1e-12)
	assert.True(t, ci.Contains(2))
	assert.False(t, ci.Contains(3))
}

func TestPercentileInterval_InvalidLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []float64{0, 100, -5, 150, math.NaN()} {
		_, err := PercentileInterval([]float64{1, 2, 3}, level)

		var invalid *InvalidParameterError
		assert.ErrorAs(t, err, &invalid, "level %v", level)
	}
}

func TestPercentileInterval_EmptyDistribution(t *testing.T) {
	t.Parallel()

	_, err := PercentileInterval(nil, 95)

	var insufficient *InsufficientDataError
	assert.ErrorAs(t, err, &insufficient)
}
