package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"suba-radar/config"
	"suba-radar/models"
	"suba-radar/services"
	"suba-radar/storage"
	"suba-radar/utils"
)

// app carries the shared state of every subcommand.
type app struct {
	cfg    *config.Config
	logger *utils.Logger

	delimiter string
}

// NewRootCmd builds the radar command tree. Persistent flags override the
// values loaded into cfg.
func NewRootCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:   "radar",
		Short: "Influencer metrics dashboard",
		Long: `radar loads a table of influencer snapshots (spreadsheet, CSV or
PostgreSQL) and serves or exports a filtered dashboard of growth and
engagement rankings with per-category means.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.DataSource, "source", cfg.DataSource, "Dataset backend: xlsx, csv or postgres")
	root.PersistentFlags().StringVar(&cfg.DataPath, "data", cfg.DataPath, "Dataset file for xlsx/csv sources")
	root.PersistentFlags().StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "Worksheet name (default: first sheet)")
	root.PersistentFlags().StringVar(&a.delimiter, "delimiter", ",", "Field delimiter for csv sources")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.importCmd())
	return root
}

// Execute runs the command tree with os.Args.
func Execute(cfg *config.Config, logger *utils.Logger) error {
	return NewRootCmd(cfg, logger).Execute()
}

// fileSource opens the configured spreadsheet or CSV.
func (a *app) fileSource() (storage.SnapshotSource, error) {
	switch strings.ToLower(a.cfg.DataSource) {
	case "xlsx", "":
		return storage.NewXLSXSource(a.cfg.DataPath, a.cfg.SheetName), nil
	case "csv":
		d := []rune(a.delimiter)
		if len(d) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", a.delimiter)
		}
		return storage.NewCSVSource(a.cfg.DataPath, d[0]), nil
	}
	return nil, fmt.Errorf("source %q is not a file source (want xlsx or csv)", a.cfg.DataSource)
}

// loadTable reads the configured source and normalises it. Integrity errors
// abort the load.
func (a *app) loadTable(ctx context.Context) ([]*models.Snapshot, error) {
	var src storage.SnapshotSource
	if strings.ToLower(a.cfg.DataSource) == "postgres" {
		store, err := storage.NewPostgresStore(ctx, a.cfg.DSN(), a.retry())
		if err != nil {
			return nil, err
		}
		defer store.Close()
		src = store
	} else {
		fs, err := a.fileSource()
		if err != nil {
			return nil, err
		}
		src = fs
	}

	a.logger.Info("[load] Reading %s dataset from %s", a.cfg.DataSource, a.describeSource())
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewNormalizer(a.logger).Normalize(raw)
}

func (a *app) describeSource() string {
	if strings.ToLower(a.cfg.DataSource) == "postgres" {
		return a.cfg.PostgresHost + "/" + a.cfg.PostgresDB
	}
	return a.cfg.DataPath
}

func (a *app) retry() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      a.logger,
	}
}
