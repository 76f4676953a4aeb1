package store

import (
	"context"

	"github.com/paceboot/paceboot/internal/activity"
)

// Store defines the activity storage operations
type Store interface {
	ImportActivities(ctx context.Context, acts []activity.Activity) (int, error)
	Speeds(ctx context.Context, f activity.Filter) ([]float64, error)
	ListAthletes(ctx context.Context) ([]AthleteSummary, error)
	CountActivities(ctx context.Context) (int, error)
	DeleteAthlete(ctx context.Context, athlete int) error

	Close() error
}
