package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/store"
)

func newDeleteAthleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-athlete <n>",
		Short: "Delete an athlete's imported activities",
		Long: `Delete every imported activity of one athlete.

Example:
  paceboot delete-athlete 3 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			athlete, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid athlete number %q", args[0])
			}

			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete all activities of athlete %d", athlete),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				if err := s.DeleteAthlete(cmd.Context(), athlete); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("athlete %d has no imported activities", athlete)
					}
					return fmt.Errorf("failed to delete athlete: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted activities of athlete %d\n", athlete)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
