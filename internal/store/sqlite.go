package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/paceboot/paceboot/internal/activity"
)

var ErrNotFound = errors.New("not found")

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id INTEGER,
    athlete INTEGER NOT NULL,
    type TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    start_date INTEGER NOT NULL,
    average_speed REAL NOT NULL,
    distance REAL NOT NULL DEFAULT 0,
    moving_time INTEGER NOT NULL DEFAULT 0,
    imported_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_activities_athlete_type ON activities(athlete, type);
CREATE UNIQUE INDEX IF NOT EXISTS idx_activities_dedup ON activities(athlete, start_date, type);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ImportActivities inserts acts in a single transaction and returns how many
// were new. Activities already present (same athlete, start and type) are skipped.
func (s *SQLiteStore) ImportActivities(ctx context.Context, acts []activity.Activity) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO activities
		 (external_id, athlete, type, name, start_date, average_speed, distance, moving_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range acts {
		result, err := stmt.ExecContext(ctx,
			nullableID(a.ID), a.Athlete, a.Type, a.Name, a.StartDate.Unix(),
			a.AverageSpeed, a.Distance, int64(a.MovingTime/time.Second),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert activity: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return inserted, nil
}

// Speeds returns the average speeds matching f, oldest activity first.
func (s *SQLiteStore) Speeds(ctx context.Context, f activity.Filter) ([]float64, error) {
	query := `SELECT average_speed FROM activities WHERE athlete = ?`
	args := []any{f.Athlete}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	query += ` ORDER BY start_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query speeds: %w", err)
	}
	defer rows.Close()

	var speeds []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan speed: %w", err)
		}
		speeds = append(speeds, v)
	}

	return speeds, rows.Err()
}

func (s *SQLiteStore) ListAthletes(ctx context.Context) ([]AthleteSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			athlete,
			COUNT(*) AS activities,
			COUNT(CASE WHEN type = ? THEN 1 END) AS runs,
			COALESCE(AVG(CASE WHEN type = ? THEN average_speed END), 0) AS mean_run_speed,
			MIN(start_date),
			MAX(start_date)
		FROM activities
		GROUP BY athlete
		ORDER BY athlete
	`, activity.TypeRun, activity.TypeRun)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	var athletes []AthleteSummary
	for rows.Next() {
		var a AthleteSummary
		var first, last int64
		if err := rows.Scan(&a.Athlete, &a.Activities, &a.Runs, &a.MeanRunSpeed, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan athlete: %w", err)
		}
		a.FirstActivity = time.Unix(first, 0).UTC()
		a.LastActivity = time.Unix(last, 0).UTC()
		athletes = append(athletes, a)
	}

	return athletes, rows.Err()
}

func (s *SQLiteStore) CountActivities(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) DeleteAthlete(ctx context.Context, athlete int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE athlete = ?`, athlete)
	if err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DB returns the underlying database connection for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func nullableID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}
