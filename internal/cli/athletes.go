package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/store"
)

func newAthletesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "athletes",
		Short: "List imported athletes",
		Long:  `List every imported athlete with activity counts and mean run speed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				athletes, err := s.ListAthletes(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list athletes: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(athletes) == 0 {
					fmt.Fprintln(out, "No activities yet.")
					fmt.Fprintln(out)
					fmt.Fprintln(out, "Load an export first:")
					fmt.Fprintln(out, "  paceboot import Runs.csv")
					return nil
				}

				tbl := table.NewWriter()
				tbl.SetOutputMirror(out)
				tbl.SetStyle(table.StyleLight)
				tbl.AppendHeader(table.Row{"Athlete", "Activities", "Runs", "Mean run speed", "First", "Last"})
				tbl.SetColumnConfigs([]table.ColumnConfig{
					{Number: 2, Align: text.AlignRight},
					{Number: 3, Align: text.AlignRight},
					{Number: 4, Align: text.AlignRight},
				})

				total := 0
				for _, ath := range athletes {
					speed := "-"
					if ath.Runs > 0 {
						speed = fmt.Sprintf("%.3f m/s", ath.MeanRunSpeed)
					}
					tbl.AppendRow(table.Row{
						ath.Athlete,
						humanize.Comma(int64(ath.Activities)),
						humanize.Comma(int64(ath.Runs)),
						speed,
						ath.FirstActivity.Format("2006-01-02"),
						ath.LastActivity.Format("2006-01-02"),
					})
					total += ath.Activities
				}
				tbl.AppendFooter(table.Row{"", humanize.Comma(int64(total))})

				tbl.Render()
				return nil
			})
		},
	}
}
