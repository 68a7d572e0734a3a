package models

import "time"

// TableRow is a snapshot pre-formatted for tabular display.
type TableRow struct {
	Date         string `json:"date"`
	Account      string `json:"account"`
	Metric       string `json:"metric"`
	FollowersMax string `json:"followers_max"`
	Categories   string `json:"categories"`
}

// Aggregate holds per-group means.
type Aggregate struct {
	Key            string  `json:"key"`
	MeanEngagement float64 `json:"mean_engagement"`
	MeanFollowers  float64 `json:"mean_followers"`
	Count          int     `json:"count"`
}

// BarPoint is one bar of a per-row bar chart.
type BarPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardView is everything the UI needs for one recomputation.
type DashboardView struct {
	Criteria           Criteria    `json:"criteria"`
	RowCount           int         `json:"row_count"`
	GrowthTable        []TableRow  `json:"growth_table"`
	EngagementTable    []TableRow  `json:"engagement_table"`
	EngagementBars     []BarPoint  `json:"engagement_bars"`
	GrowthBars         []BarPoint  `json:"growth_bars"`
	AccountAggregates  []Aggregate `json:"account_aggregates"`
	CategoryAggregates []Aggregate `json:"category_aggregates"`
	CategoryBars       []Aggregate `json:"category_bars"`
}

// FilterOptions lists the values each filter control can offer.
type FilterOptions struct {
	Dates      []time.Time `json:"dates"`
	Accounts   []string    `json:"accounts"`
	Categories []string    `json:"categories"`
	Verified   []bool      `json:"verified"`
	IsBrand    []bool      `json:"is_brand"`
	Clusters   []string    `json:"clusters"`
}

// DateRange maps slider positions to dates, clamping out-of-range indices.
// It returns zero times when no dates are known.
func (o *FilterOptions) DateRange(lo, hi int) (time.Time, time.Time) {
	if len(o.Dates) == 0 {
		return time.Time{}, time.Time{}
	}
	last := len(o.Dates) - 1
	lo = clamp(lo, 0, last)
	hi = clamp(hi, 0, last)
	if lo > hi {
		lo, hi = hi, lo
	}
	return o.Dates[lo], o.Dates[hi]
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
