package stats

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapMeans_LengthAndBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample []float64
		nBoot  int
	}{
		{name: "single_draw", sample: []float64{2.9, 3.1, 3.3}, nBoot: 1},
		{name: "runs", sample: []float64{2.81, 3.12, 3.44, 2.95, 3.61, 3.02, 3.3}, nBoot: 1000},
		{name: "repeated_values", sample: []float64{0.1, 0.1, 0.1, 0.1}, nBoot: 700},
		{name: "negative_values", sample: []float64{-4, -1.5, 0, 2.25}, nBoot: 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			means, err := BootstrapMeans(NewRand(7), tt.sample, tt.nBoot)
			require.NoError(t, err)
			require.Len(t, means, tt.nBoot)

			lo, hi := slices.Min(tt.sample), slices.Max(tt.sample)
			for i, m := range means {
				assert.GreaterOrEqual(t, m, lo, "mean %d below sample minimum", i)
				assert.LessOrEqual(t, m, hi, "mean %d above sample maximum", i)
			}
		})
	}
}

func TestBootstrapMeans_SingleObservation(t *testing.T) {
	t.Parallel()

	means, err := BootstrapMeans(NewRand(1), []float64{5.0}, 250)
	require.NoError(t, err)
	require.Len(t, means, 250)

	for _, m := range means {
		assert.Equal(t, 5.0, m)
	}
}

func TestBootstrapMeans_ConvergesToSampleMean(t *testing.T) {
	t.Parallel()

	sample := []float64{2.81, 3.12, 3.44, 2.95, 3.61, 3.02, 3.3, 2.7, 3.9}

	means, err := BootstrapMeans(NewRand(42), sample, 20000)
	require.NoError(t, err)

	assert.InDelta(t, mean(sample), mean(means), 0.05)
}

func TestBootstrapMeans_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	sample := []float64{3.4, 2.2, 5.1, 1.0}
	original := slices.Clone(sample)

	_, err := BootstrapMeans(NewRand(3), sample, 100)
	require.NoError(t, err)

	assert.Equal(t, original, sample)
}

func TestBootstrapMeans_Reproducible(t *testing.T) {
	t.Parallel()

	sample := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	first, err := BootstrapMeans(NewRand(99), sample, 3000)
	require.NoError(t, err)

	second, err := BootstrapMeans(NewRand(99), sample, 3000)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBootstrapMeansContext_WorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	sample := []float64{2.5, 3.5, 2.75, 3.25, 3.0}
	ctx := context.Background()

	serial, err := BootstrapMeansContext(ctx, NewRand(11), sample, 5000, 1)
	require.NoError(t, err)

	parallel, err := BootstrapMeansContext(ctx, NewRand(11), sample, 5000, 8)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestBootstrapMeans_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty_sample", func(t *testing.T) {
		t.Parallel()

		_, err := BootstrapMeans(NewRand(1), nil, 10)

		var insufficient *InsufficientDataError
		assert.ErrorAs(t, err, &insufficient)
	})

	t.Run("zero_resamples", func(t *testing.T) {
		t.Parallel()

		_, err := BootstrapMeans(NewRand(1), []float64{1}, 0)

		var invalid *InvalidParameterError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "resamples", invalid.Param)
	})

	t.Run("too_many_resamples", func(t *testing.T) {
		t.Parallel()

		_, err := BootstrapMeans(NewRand(1), []float64{1}, MaxResamples+1)

		var invalid *InvalidParameterError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("non_finite_observation", func(t *testing.T) {
		t.Parallel()

		_, err := BootstrapMeans(NewRand(1), []float64{1, math.Inf(1)}, 10)

		var invalid *InvalidParameterError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestBootstrapMeansContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BootstrapMeansContext(ctx, NewRand(1), []float64{1, 2, 3}, 10000, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBootstrapMeans_NilRandUsesFreshSource(t *testing.T) {
	t.Parallel()

	means, err := BootstrapMeans(nil, []float64{1, 2}, 50)
	require.NoError(t, err)
	assert.Len(t, means, 50)
}
