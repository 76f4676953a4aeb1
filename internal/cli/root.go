package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/config"
	"github.com/paceboot/paceboot/internal/logging"
)

// app carries the global flags and what PersistentPreRunE loads from them.
type app struct {
	dbPath     string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "paceboot",
		Short: "Compare two runners' average speeds with bootstrap and permutation tests",
		Long: `paceboot compares the average speed of two athletes' activities.

It bootstraps the mean speed of each athlete, reports percentile confidence
intervals, and runs a two-sided permutation test of "no difference".
Single Go binary, embedded SQLite.

Typical session:
  paceboot import activities.csv
  paceboot athletes
  paceboot compare --mine 0 --friend 2
  paceboot serve`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default from config, ./paceboot.db)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default paceboot.yaml in ., ./config, ~/.config/paceboot)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newImportCmd(a),
		newAthletesCmd(a),
		newCompareCmd(a),
		newServeCmd(a),
		newTokenCmd(a),
		newDeleteAthleteCmd(a),
	)

	return cmd
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.Logging, cmd.ErrOrStderr())
	return nil
}
