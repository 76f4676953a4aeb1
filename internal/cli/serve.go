package cli

import (
	"github.com/spf13/cobra"

	"github.com/paceboot/paceboot/internal/server"
	"github.com/paceboot/paceboot/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the paceboot HTTP server.

The server provides:
  - Dashboard with the comparison form and charts
  - JSON comparison API at /api/compare
  - Health check and Prometheus metrics

Example:
  paceboot serve --port 8050`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				srv := server.New(s, a.cfg, a.tokenFilePath(), a.logger)
				return srv.Run(cmd.Context(), true)
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8050, "port to listen on")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "interface to listen on")

	return cmd
}
