package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paceboot/paceboot/internal/activity"
	"github.com/paceboot/paceboot/internal/store"
)

func setupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 7, 0, 0, 0, time.UTC)
}

func fixtureActivities() []activity.Activity {
	return []activity.Activity{
		{ID: 1, Athlete: 0, Type: activity.TypeRun, StartDate: day(3), AverageSpeed: 3.2},
		{ID: 2, Athlete: 0, Type: activity.TypeRun, StartDate: day(1), AverageSpeed: 3.0},
		{ID: 3, Athlete: 0, Type: "Ride", StartDate: day(2), AverageSpeed: 8.1},
		{ID: 4, Athlete: 2, Type: activity.TypeRun, StartDate: day(1), AverageSpeed: 2.7, MovingTime: 30 * time.Minute},
		{ID: 5, Athlete: 2, Type: activity.TypeRun, StartDate: day(4), AverageSpeed: 2.9},
	}
}

func TestImportActivities(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := s.ImportActivities(ctx, fixtureActivities())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	count, err := s.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestImportActivities_SkipsDuplicates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.ImportActivities(ctx, fixtureActivities())
	require.NoError(t, err)

	extra := append(fixtureActivities(), activity.Activity{Athlete: 1, Type: activity.TypeRun, StartDate: day(5), AverageSpeed: 3.5})
	n, err := s.ImportActivities(ctx, extra)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestSpeeds(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.ImportActivities(ctx, fixtureActivities())
	require.NoError(t, err)

	mine, err := s.Speeds(ctx, activity.Filter{Athlete: 0, Type: activity.TypeRun})
	require.NoError(t, err)
	assert.Equal(t, []float64{3.0, 3.2}, mine)

	all, err := s.Speeds(ctx, activity.Filter{Athlete: 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{3.0, 8.1, 3.2}, all)

	none, err := s.Speeds(ctx, activity.Filter{Athlete: 9, Type: activity.TypeRun})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAthletes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.ImportActivities(ctx, fixtureActivities())
	require.NoError(t, err)

	athletes, err := s.ListAthletes(ctx)
	require.NoError(t, err)
	require.Len(t, athletes, 2)

	me := athletes[0]
	assert.Equal(t, 0, me.Athlete)
	assert.Equal(t, 3, me.Activities)
	assert.Equal(t, 2, me.Runs)
	assert.InDelta(t, 3.1, me.MeanRunSpeed, 1e-9)
	assert.Equal(t, day(1), me.FirstActivity)
	assert.Equal(t, day(3), me.LastActivity)

	assert.Equal(t, 2, athletes[1].Athlete)
	assert.Equal(t, 2, athletes[1].Runs)
}

func TestDeleteAthlete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.ImportActivities(ctx, fixtureActivities())
	require.NoError(t, err)

	require.NoError(t, s.DeleteAthlete(ctx, 2))

	speeds, err := s.Speeds(ctx, activity.Filter{Athlete: 2})
	require.NoError(t, err)
	assert.Empty(t, speeds)

	assert.ErrorIs(t, s.DeleteAthlete(ctx, 2), store.ErrNotFound)
}
