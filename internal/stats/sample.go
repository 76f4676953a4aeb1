package stats

import (
	"fmt"
	"math"
	"slices"
)

// MaxResamples is the largest resample count accepted by the engine.
// Callers are expected to clamp well below this (the CLI and server use 10,000).
const MaxResamples = 100_000

// prepare validates a group and returns a sorted copy of it.
// Sorting makes results independent of the order observations arrive in.
func prepare(group string, xs []float64) ([]float64, error) {
	if len(xs) == 0 {
		return nil, &InsufficientDataError{Group: group}
	}

	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &InvalidParameterError{
				Param:  fmt.Sprintf("%s[%d]", group, i),
				Value:  x,
				Reason: "observations must be finite",
			}
		}
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	if math.IsInf(sorted[len(sorted)-1]-sorted[0], 0) {
		return nil, &InvalidParameterError{
			Param:  group,
			Value:  [2]float64{sorted[0], sorted[len(sorted)-1]},
			Reason: "range of observations overflows float64",
		}
	}

	return sorted, nil
}

func validateResamples(n int) error {
	if n < 1 {
		return &InvalidParameterError{Param: "resamples", Value: n, Reason: "must be at least 1"}
	}
	if n > MaxResamples {
		return &InvalidParameterError{Param: "resamples", Value: n, Reason: fmt.Sprintf("must not exceed %d", MaxResamples)}
	}
	return nil
}

func validateLevel(level float64) error {
	if math.IsNaN(level) || level <= 0 || level >= 100 {
		return &InvalidParameterError{Param: "confidence_level", Value: level, Reason: "must be in (0, 100)"}
	}
	return nil
}

// mean uses the running-mean recurrence so the result never leaves
// [min(xs), max(xs)] through accumulated rounding.
func mean(xs []float64) float64 {
	m := 0.0
	for i, x := range xs {
		m += (x - m) / float64(i+1)
	}
	return m
}
