package services

import (
	"sort"
	"time"

	"suba-radar/models"
	"suba-radar/utils"
)

// Dashboard derives every table and chart dataset from the base table for one
// set of criteria. Recompute is a pure function of its arguments.
type Dashboard struct {
	logger    *utils.Logger
	filter    *FilterEngine
	formatter *Formatter
}

// NewDashboard wires a Dashboard with its filter engine and formatter.
func NewDashboard(logger *utils.Logger, formatter *Formatter) *Dashboard {
	return &Dashboard{
		logger:    logger,
		filter:    NewFilterEngine(logger),
		formatter: formatter,
	}
}

// Formatter returns the formatter used for display strings.
func (d *Dashboard) Formatter() *Formatter {
	return d.formatter
}

// Filter exposes the filter stage on its own.
func (d *Dashboard) Filter(table []*models.Snapshot, c models.Criteria) []*models.Snapshot {
	return d.filter.Apply(table, c)
}

// Recompute runs filter → sort → format → aggregate.
func (d *Dashboard) Recompute(table []*models.Snapshot, c models.Criteria) *models.DashboardView {
	c = withDefaultSpan(table, c)
	filtered := d.filter.Apply(table, c)

	byGrowth := sortedBy(filtered, func(s *models.Snapshot) float64 { return s.FollowersGrowth })
	byER := sortedBy(filtered, func(s *models.Snapshot) float64 { return s.EngagementRate })

	view := &models.DashboardView{
		Criteria:        c,
		RowCount:        len(filtered),
		GrowthTable:     d.tableRows(byGrowth, func(s *models.Snapshot) float64 { return s.FollowersGrowth }),
		EngagementTable: d.tableRows(byER, func(s *models.Snapshot) float64 { return s.EngagementRate }),
		GrowthBars:      accountBars(filtered, func(s *models.Snapshot) float64 { return s.FollowersGrowth }),
		EngagementBars:  accountBars(filtered, func(s *models.Snapshot) float64 { return s.EngagementRate }),
	}

	accounts := ByAccount(filtered)
	categories := ByCategory(filtered)
	view.AccountAggregates = SortedByKey(accounts)
	view.CategoryAggregates = SortedByKey(categories)
	view.CategoryBars = SortedByEngagement(categories)

	d.logger.Debug("[dashboard] Recomputed: %d rows, %d accounts, %d categories",
		view.RowCount, len(accounts), len(categories))
	return view
}

func (d *Dashboard) tableRows(rows []*models.Snapshot, metric func(*models.Snapshot) float64) []models.TableRow {
	out := make([]models.TableRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TableRow{
			Date:         d.formatter.Date(r.Date),
			Account:      r.Account,
			Metric:       d.formatter.Percent(metric(r)),
			FollowersMax: d.formatter.Thousands(r.FollowersMax),
			Categories:   r.Categories,
		})
	}
	return out
}

// accountBars averages metric per account, highest first. Ties break by
// account name.
func accountBars(rows []*models.Snapshot, metric func(*models.Snapshot) float64) []models.BarPoint {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		sums[r.Account] += metric(r)
		counts[r.Account]++
	}

	out := make([]models.BarPoint, 0, len(sums))
	for account, sum := range sums {
		out = append(out, models.BarPoint{Label: account, Value: sum / float64(counts[account])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// sortedBy returns a copy of rows ordered by metric, highest first. Ties keep
// table order.
func sortedBy(rows []*models.Snapshot, metric func(*models.Snapshot) float64) []*models.Snapshot {
	out := make([]*models.Snapshot, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return metric(out[i]) > metric(out[j]) })
	return out
}

// DefaultCriteria spans the whole table and restricts nothing else.
func DefaultCriteria(table []*models.Snapshot) models.Criteria {
	return withDefaultSpan(table, models.Criteria{})
}

func withDefaultSpan(table []*models.Snapshot, c models.Criteria) models.Criteria {
	if !c.Start.IsZero() && !c.End.IsZero() {
		return c
	}
	lo, hi := span(table)
	if c.Start.IsZero() {
		c.Start = lo
	}
	if c.End.IsZero() {
		c.End = hi
	}
	return c
}

func span(table []*models.Snapshot) (time.Time, time.Time) {
	var lo, hi time.Time
	for i, r := range table {
		if i == 0 || r.Date.Before(lo) {
			lo = r.Date
		}
		if i == 0 || r.Date.After(hi) {
			hi = r.Date
		}
	}
	return lo, hi
}

// Options lists the values offered by each filter control. Accounts, flags
// and clusters keep first-appearance order; dates and categories are sorted and
// the categories list ends with models.EmptyCategory.
func Options(table []*models.Snapshot) models.FilterOptions {
	opts := models.FilterOptions{
		Dates:      []time.Time{},
		Accounts:   []string{},
		Verified:   []bool{},
		IsBrand:    []bool{},
		Clusters:   []string{},
		Categories: append(SortedCategories(table), models.EmptyCategory),
	}

	dates := make(map[time.Time]struct{})
	accounts := make(map[string]struct{})
	clusters := make(map[string]struct{})
	verified := make(map[bool]struct{})
	brand := make(map[bool]struct{})

	for _, r := range table {
		if _, ok := dates[r.Date]; !ok {
			dates[r.Date] = struct{}{}
			opts.Dates = append(opts.Dates, r.Date)
		}
		if _, ok := accounts[r.Account]; !ok {
			accounts[r.Account] = struct{}{}
			opts.Accounts = append(opts.Accounts, r.Account)
		}
		if _, ok := clusters[r.Cluster]; !ok {
			clusters[r.Cluster] = struct{}{}
			opts.Clusters = append(opts.Clusters, r.Cluster)
		}
		if _, ok := verified[r.Verified]; !ok {
			verified[r.Verified] = struct{}{}
			opts.Verified = append(opts.Verified, r.Verified)
		}
		if _, ok := brand[r.IsBrand]; !ok {
			brand[r.IsBrand] = struct{}{}
			opts.IsBrand = append(opts.IsBrand, r.IsBrand)
		}
	}

	sort.Slice(opts.Dates, func(i, j int) bool { return opts.Dates[i].Before(opts.Dates[j]) })
	return opts
}
