package stats

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

const (
	// chunkSize is the number of draws sharing one random stream. Chunk
	// boundaries do not depend on the worker count, so a seeded run gives
	// the same distribution however many workers execute it.
	chunkSize = 512

	// cancelCheckEvery bounds how many draws run between context checks.
	cancelCheckEvery = 64
)

// drawFunc produces one statistic from the given stream. Each chunk gets its
// own drawFunc, so scratch buffers captured by it are never shared.
type drawFunc func(r *rand.Rand) float64

// fill runs n draws split into fixed-size chunks on at most workers
// goroutines and returns them in chunk order.
func fill(ctx context.Context, rng *rand.Rand, n, workers int, newDraw func() drawFunc) ([]float64, error) {
	chunks := (n + chunkSize - 1) / chunkSize

	// Streams are derived up front and in order so the outcome is fixed by
	// rng alone.
	streams := make([]*rand.Rand, chunks)
	for i := range streams {
		streams[i] = child(rng)
	}

	out := make([]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for c := range chunks {
		lo := c * chunkSize
		hi := min(lo+chunkSize, n)
		stream := streams[c]

		g.Go(func() error {
			draw := newDraw()
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				out[i] = draw(stream)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resampling interrupted: %w", err)
	}

	return out, nil
}

// bootstrapDraw resamples sample with replacement at its own size and
// returns the resample mean.
func bootstrapDraw(sample []float64) func() drawFunc {
	return func() drawFunc {
		buf := make([]float64, len(sample))
		return func(r *rand.Rand) float64 {
			for j := range buf {
				buf[j] = sample[r.IntN(len(sample))]
			}
			return mean(buf)
		}
	}
}

// BootstrapMeans returns nBoot means of resamples of sample drawn with
// replacement at the sample's size. sample is not modified.
func BootstrapMeans(rng *rand.Rand, sample []float64, nBoot int) ([]float64, error) {
	return BootstrapMeansContext(context.Background(), rng, sample, nBoot, 1)
}

// BootstrapMeansContext is BootstrapMeans spread over workers goroutines.
// It stops early and returns the context's error when ctx is done.
func BootstrapMeansContext(ctx context.Context, rng *rand.Rand, sample []float64, nBoot, workers int) ([]float64, error) {
	sorted, err := prepare("sample", sample)
	if err != nil {
		return nil, err
	}
	if err := validateResamples(nBoot); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandomRand()
	}

	return fill(ctx, rng, nBoot, workers, bootstrapDraw(sorted))
}
