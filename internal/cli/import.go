package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/activity"
	"github.com/paceboot/paceboot/internal/store"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Import activities from a CSV export",
		Long: `Import activities from a CSV export into the database.

Required columns: start_date_local, friendNum, type, average_speed.
Optional columns: id, name, distance, moving_time.
friendNum identifies the athlete (0 is you). Activities already imported
(same athlete, start date and type) are skipped.

Example:
  paceboot import Runs.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			acts, err := activity.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				inserted, err := s.ImportActivities(cmd.Context(), acts)
				if err != nil {
					return err
				}

				a.logger.Debug("import finished", "file", args[0], "rows", len(acts), "inserted", inserted)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %s activities from %s\n", humanize.Comma(int64(inserted)), args[0])
				if skipped := len(acts) - inserted; skipped > 0 {
					fmt.Fprintf(out, "Skipped %s already present\n", humanize.Comma(int64(skipped)))
				}
				return nil
			})
		},
	}
}
