package cli

import (
	"fmt"
	"path/filepath"

	"github.com/paceboot/paceboot/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func (a *app) withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// tokenFilePath returns the token file kept alongside the database.
func (a *app) tokenFilePath() string {
	return filepath.Join(filepath.Dir(a.cfg.Database.Path), ".paceboot-token")
}
