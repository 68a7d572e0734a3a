package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"suba-radar/models"
	"suba-radar/render"
	"suba-radar/services"
	"suba-radar/storage"
	"suba-radar/utils"
)

func (a *app) exportCmd() *cobra.Command {
	var filters filterFlags
	var pdf bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered tables, charts and optionally a PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			table, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			opts := services.Options(table)
			criteria, err := filters.criteria(opts)
			if err != nil {
				return err
			}

			formatter := services.NewFormatter(a.cfg.ThousandsSeparator)
			view := services.NewDashboard(a.logger, formatter).Recompute(table, criteria)
			return a.export(ctx, view, opts, formatter, pdf)
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&a.cfg.ExportDir, "out", a.cfg.ExportDir, "Output directory")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Also print the dashboard to PDF with headless Chrome")
	return cmd
}

func (a *app) export(ctx context.Context, view *models.DashboardView, opts models.FilterOptions,
	formatter *services.Formatter, pdf bool) error {
	dir := a.cfg.ExportDir

	tables := []struct {
		name   string
		metric string
		rows   []models.TableRow
	}{
		{"growth", models.ColGrowth, view.GrowthTable},
		{"engagement", models.ColEngagement, view.EngagementTable},
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.name+".csv")
		w, err := storage.NewCSVWriter(path)
		if err != nil {
			return err
		}
		if err := writeTable(w, t.metric, t.rows); err != nil {
			return err
		}
		a.logger.Info("[export] %s table (%d rows) saved to %s", t.name, len(t.rows), path)
	}

	charts := render.NewCharts(formatter)
	paths, err := charts.WriteAll(ctx, view, filepath.Join(dir, "charts"), utils.NewWorkerPool(a.cfg.RenderConcurrency))
	if err != nil {
		return err
	}
	a.logger.Info("[export] %d of %d charts rendered", len(paths), len(render.AllCharts))

	if !pdf {
		return nil
	}

	var renderErr error
	data := render.NewPageData("Radar de Influenciadores", view, opts, nil, 0, func(kind render.ChartKind) string {
		src, err := charts.DataURI(kind, view)
		if err != nil && renderErr == nil {
			renderErr = err
		}
		return src
	})
	if renderErr != nil {
		return fmt.Errorf("export: inline charts: %w", renderErr)
	}
	return render.NewPDFExporter(a.cfg, a.logger).Export(ctx, data, filepath.Join(dir, "dashboard.pdf"))
}

func writeTable(w storage.TableWriter, metric string, rows []models.TableRow) error {
	if err := w.WriteTable(metric, rows); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
