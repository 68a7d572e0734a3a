package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"suba-radar/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			table, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			return server.New(a.cfg, a.logger, table).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&a.cfg.HTTPAddr, "addr", a.cfg.HTTPAddr, "Listen address")
	return cmd
}
