// Package analysis loads comparison samples from the activity store, applies
// the caller-side limits, and runs the resampling engine.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/paceboot/paceboot/internal/activity"
	"github.com/paceboot/paceboot/internal/config"
	"github.com/paceboot/paceboot/internal/stats"
)

// SpeedSource provides the samples for a comparison.
type SpeedSource interface {
	Speeds(ctx context.Context, f activity.Filter) ([]float64, error)
}

// Request describes one comparison as a user asked for it.
type Request struct {
	Mine      int     `json:"mine"`
	Friend    int     `json:"friend"`
	Type      string  `json:"type"`
	Resamples int     `json:"resamples"`
	Level     float64 `json:"level"`
	Seed      *uint64 `json:"seed,omitempty"`
}

// Outcome is a finished comparison together with the effective parameters.
// Group A is the friend and group B is mine, so the observed difference
// reads "mine minus friend's".
type Outcome struct {
	Request  Request
	Seed     uint64
	Result   *stats.Result
	Duration time.Duration
}

// Analyzer runs comparisons against a speed source.
type Analyzer struct {
	source SpeedSource
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

// New returns an Analyzer using cfg for defaults and limits.
func New(source SpeedSource, cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{source: source, cfg: cfg, logger: logger}
}

// Config returns the analysis settings in use.
func (a *Analyzer) Config() config.AnalysisConfig {
	return a.cfg
}

// Normalize fills defaults and clamps the resample count. The confidence
// level is passed through untouched; the engine rejects invalid levels.
func (a *Analyzer) Normalize(req Request) Request {
	req.Resamples = a.cfg.ClampResamples(req.Resamples)
	req.Level = a.cfg.LevelOrDefault(req.Level)
	return req
}

// Run executes req. The comparison is abandoned with the context's error
// when ctx ends or the configured timeout passes.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Outcome, error) {
	req = a.Normalize(req)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	friend, err := a.source.Speeds(ctx, activity.Filter{Athlete: req.Friend, Type: req.Type})
	if err != nil {
		return nil, fmt.Errorf("failed to load speeds for athlete %d: %w", req.Friend, err)
	}
	mine, err := a.source.Speeds(ctx, activity.Filter{Athlete: req.Mine, Type: req.Type})
	if err != nil {
		return nil, fmt.Errorf("failed to load speeds for athlete %d: %w", req.Mine, err)
	}

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	a.logger.DebugContext(ctx, "starting comparison",
		"mine", req.Mine, "friend", req.Friend, "type", req.Type,
		"n_mine", len(mine), "n_friend", len(friend),
		"resamples", req.Resamples, "level", req.Level, "seed", seed)

	start := time.Now()
	res, err := stats.Compare(ctx, stats.NewRand(seed), friend, mine, stats.Options{
		Resamples:       req.Resamples,
		ConfidenceLevel: req.Level,
		Workers:         a.cfg.Workers,
	})
	if err != nil {
		var insufficient *stats.InsufficientDataError
		if errors.As(err, &insufficient) {
			athlete := req.Friend
			if insufficient.Group == "B" {
				athlete = req.Mine
			}
			return nil, fmt.Errorf("athlete %d has no %s activities: %w", athlete, typeLabel(req.Type), err)
		}
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	out := &Outcome{Request: req, Seed: seed, Result: res, Duration: time.Since(start)}

	a.logger.InfoContext(ctx, "comparison finished",
		"observed_diff", res.ObservedDiff, "p_value", res.PValue,
		"resamples", req.Resamples, "duration", out.Duration)

	return out, nil
}

func typeLabel(t string) string {
	if t == "" {
		return "recorded"
	}
	return t
}
