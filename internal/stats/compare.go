package stats

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"

	moremath "github.com/aclements/go-moremath/stats"
)

// Options controls a comparison.
type Options struct {
	// Resamples is the number of bootstrap resamples per group and the
	// number of permutations. Must be in [1, MaxResamples].
	Resamples int
	// ConfidenceLevel is a percentage in (0, 100), e.g. 95.
	ConfidenceLevel float64
	// Workers caps the goroutines used per pass. Values below 1 mean 1.
	Workers int
}

// Group describes one sample and its bootstrap distribution.
type Group struct {
	N         int       `json:"n"`
	Mean      float64   `json:"mean"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	StdErr    float64   `json:"std_err"` // std dev of the bootstrap means
	CI        Interval  `json:"ci"`
	BootMeans []float64 `json:"boot_means,omitempty"`
}

// Result is the outcome of Compare. The difference convention is B minus A
// throughout.
type Result struct {
	A               Group     `json:"a"`
	B               Group     `json:"b"`
	ObservedDiff    float64   `json:"observed_diff"`
	PValue          float64   `json:"p_value"`
	NullCI          Interval  `json:"null_ci"`
	NullDiffs       []float64 `json:"null_diffs,omitempty"`
	Resamples       int       `json:"resamples"`
	ConfidenceLevel float64   `json:"confidence_level"`
}

// Significant reports whether the permutation p-value is below alpha.
func (r *Result) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// Compare bootstraps the mean of each group, builds percentile intervals for
// both, and runs a two-sided permutation test of "no difference in means"
// over the pooled observations.
//
// rng supplies all randomness; a nil rng is replaced by a randomly seeded
// one. Group contents are not modified and their order does not affect the
// result for a given seed. Swapping groupA and groupB under the same seed
// mirrors the result only up to resampling noise, since each group then
// draws from a different stream.
//
// Observations whose spread overflows float64 are rejected with an
// *InvalidParameterError.
func Compare(ctx context.Context, rng *rand.Rand, groupA, groupB []float64, opts Options) (*Result, error) {
	a, err := prepare("A", groupA)
	if err != nil {
		return nil, err
	}
	b, err := prepare("B", groupB)
	if err != nil {
		return nil, err
	}
	if err := validateResamples(opts.Resamples); err != nil {
		return nil, err
	}
	if err := validateLevel(opts.ConfidenceLevel); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandomRand()
	}

	lo, hi := min(a[0], b[0]), max(a[len(a)-1], b[len(b)-1])
	if math.IsInf(hi-lo, 0) {
		return nil, &InvalidParameterError{
			Param:  "observations",
			Value:  [2]float64{lo, hi},
			Reason: "range of pooled observations overflows float64",
		}
	}

	meanA, meanB := mean(a), mean(b)
	observed := meanB - meanA

	bootA, err := fill(ctx, rng, opts.Resamples, opts.Workers, bootstrapDraw(a))
	if err != nil {
		return nil, err
	}
	bootB, err := fill(ctx, rng, opts.Resamples, opts.Workers, bootstrapDraw(b))
	if err != nil {
		return nil, err
	}

	pooled := append(slices.Clone(a), b...)
	null, err := fill(ctx, rng, opts.Resamples, opts.Workers, permutationDraw(pooled, len(a)))
	if err != nil {
		return nil, err
	}

	sortedNull := slices.Clone(null)
	slices.Sort(sortedNull)

	return &Result{
		A:               summarize(a, meanA, bootA, opts.ConfidenceLevel),
		B:               summarize(b, meanB, bootB, opts.ConfidenceLevel),
		ObservedDiff:    observed,
		PValue:          pValue(null, observed, max(math.Abs(lo), math.Abs(hi))),
		NullCI:          intervalSorted(sortedNull, opts.ConfidenceLevel),
		NullDiffs:       null,
		Resamples:       opts.Resamples,
		ConfidenceLevel: opts.ConfidenceLevel,
	}, nil
}

func summarize(sorted []float64, m float64, boot []float64, level float64) Group {
	sortedBoot := slices.Clone(boot)
	slices.Sort(sortedBoot)

	bs := moremath.Sample{Xs: sortedBoot, Sorted: true}
	stdErr := 0.0
	if len(sortedBoot) > 1 {
		stdErr = bs.StdDev()
	}

	obs := moremath.Sample{Xs: sorted, Sorted: true}
	lo, hi := obs.Bounds()

	return Group{
		N:         len(sorted),
		Mean:      m,
		Min:       lo,
		Max:       hi,
		StdErr:    stdErr,
		CI:        intervalSorted(sortedBoot, level),
		BootMeans: boot,
	}
}
