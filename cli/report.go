package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"suba-radar/models"
	"suba-radar/services"
)

func (a *app) reportCmd() *cobra.Command {
	var filters filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the filtered rankings and category means",
		Example: `  radar report --start 2024-01-01 --category Moda --category Vazio
  radar report --source csv --data base.csv --verified true --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadTable(cmd.Context())
			if err != nil {
				return err
			}
			criteria, err := filters.criteria(services.Options(table))
			if err != nil {
				return err
			}

			formatter := services.NewFormatter(a.cfg.ThousandsSeparator)
			view := services.NewDashboard(a.logger, formatter).Recompute(table, criteria)
			printReport(cmd.OutOrStdout(), view, formatter, limit)
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", a.cfg.TablePageSize, "Rows per ranking (0 = all)")
	return cmd
}

func printReport(w io.Writer, view *models.DashboardView, f *services.Formatter, limit int) {
	title := color.New(color.FgMagenta, color.Bold)
	heading := color.New(color.FgYellow, color.Bold)

	title.Fprintf(w, "\nRadar de Influenciadores: %s a %s, %d registros\n",
		f.Date(view.Criteria.Start), f.Date(view.Criteria.End), view.RowCount)

	if view.RowCount == 0 {
		color.New(color.FgRed).Fprintln(w, "Nenhum registro para os filtros escolhidos")
		return
	}

	heading.Fprintln(w, "\nCrescimento da Base")
	printRanking(w, models.ColGrowth, head(view.GrowthTable, limit))

	heading.Fprintln(w, "\nTaxa de Engajamento")
	printRanking(w, models.ColEngagement, head(view.EngagementTable, limit))

	heading.Fprintln(w, "\nMédia por Categoria")
	printAggregates(w, "Categoria", view.CategoryBars, f)

	heading.Fprintln(w, "\nMédia por Usuário")
	printAggregates(w, "Usuário", view.AccountAggregates, f)
}

func printRanking(w io.Writer, metric string, rows []models.TableRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Data", "@ do influenciador", metric, "Seguidores", "Categorias"})
	for i, r := range rows {
		table.Append([]string{strconv.Itoa(i + 1), r.Date, r.Account, r.Metric, r.FollowersMax, r.Categories})
	}
	table.Render()
}

func printAggregates(w io.Writer, label string, aggs []models.Aggregate, f *services.Formatter) {
	if len(aggs) == 0 {
		fmt.Fprintln(w, "  sem dados")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{label, "ER médio", "Seguidores médios", "Registros"})
	for _, a := range aggs {
		table.Append([]string{a.Key, f.Percent(a.MeanEngagement), f.Thousands(a.MeanFollowers), strconv.Itoa(a.Count)})
	}
	table.Render()
}

func head(rows []models.TableRow, limit int) []models.TableRow {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
