package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paceboot/paceboot/internal/stats"
)

// Comparison outcomes used as the "result" label.
const (
	resultOK               = "ok"
	resultInsufficientData = "insufficient_data"
	resultInvalidParameter = "invalid_parameter"
	resultCancelled        = "cancelled"
	resultError            = "error"
)

// metrics lives on a private registry so several servers (tests) never
// collide on registration.
type metrics struct {
	registry    *prometheus.Registry
	comparisons *prometheus.CounterVec
	duration    prometheus.Histogram
	resamples   prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		comparisons: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "paceboot_comparisons_total",
			Help: "Comparisons requested, by result",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "paceboot_comparison_duration_seconds",
			Help:    "Time spent resampling per successful comparison",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		resamples: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "paceboot_comparison_resamples",
			Help:    "Resample count per comparison after clamping",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// classify maps a comparison error to its result label.
func classify(err error) string {
	var insufficient *stats.InsufficientDataError
	var invalid *stats.InvalidParameterError

	switch {
	case err == nil:
		return resultOK
	case errors.As(err, &insufficient):
		return resultInsufficientData
	case errors.As(err, &invalid):
		return resultInvalidParameter
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resultCancelled
	default:
		return resultError
	}
}
