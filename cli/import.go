package cli

import (
	"context"

	"github.com/spf13/cobra"

	"suba-radar/models"
	"suba-radar/services"
	"suba-radar/storage"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load the dataset file and store it in PostgreSQL (table: snapshots)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := a.fileSource()
			if err != nil {
				return err
			}

			raw, err := src.Load(ctx)
			if err != nil {
				return err
			}
			table, err := services.NewNormalizer(a.logger).Normalize(raw)
			if err != nil {
				return err
			}

			store, err := storage.NewPostgresStore(ctx, a.cfg.DSN(), a.retry())
			if err != nil {
				a.logger.Error("[import] Make sure PostgreSQL is running: docker compose up -d")
				return err
			}
			if err := storeTable(ctx, store, table); err != nil {
				return err
			}
			a.logger.Info("[import] %d snapshots stored in PostgreSQL (table: snapshots)", len(table))
			return nil
		},
	}
}

func storeTable(ctx context.Context, w storage.SnapshotWriter, table []*models.Snapshot) error {
	defer w.Close()
	return w.Write(ctx, table)
}
