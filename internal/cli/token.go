package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/server"
)

func newTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show dashboard URL with access token",
		Long: `Show the dashboard URL with your access token.

Use this when you've scrolled past the startup message or need to
share the dashboard link. The URL uses the port the server is actually
listening on.

Example:
  paceboot token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := server.ReadTokenFile(a.tokenFilePath())
			switch {
			case errors.Is(err, fs.ErrNotExist):
				return errors.New("no server running. Start with: paceboot serve")
			case errors.Is(err, server.ErrEmptyToken):
				return errors.New("token file is empty. Restart the server with: paceboot serve")
			case err != nil:
				return fmt.Errorf("failed to read token file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dashboard: %s/dashboard?token=%s\n", tf.URL, tf.Token)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Tip: Bookmark this URL or run 'paceboot token' anytime.")
			return nil
		},
	}
}
