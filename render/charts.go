package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"suba-radar/models"
	"suba-radar/services"
	"suba-radar/utils"
)

// ChartKind names one of the dashboard charts.
type ChartKind string

const (
	ChartEngagement        ChartKind = "engagement"
	ChartGrowth            ChartKind = "growth"
	ChartAccountsScatter   ChartKind = "accounts-scatter"
	ChartCategoriesScatter ChartKind = "categories-scatter"
	ChartCategoriesBar     ChartKind = "categories-bar"
)

// AllCharts lists every chart in display order.
var AllCharts = []ChartKind{
	ChartEngagement,
	ChartGrowth,
	ChartAccountsScatter,
	ChartCategoriesScatter,
	ChartCategoriesBar,
}

var (
	// ErrNoData is returned when the filtered view has nothing to plot.
	ErrNoData = errors.New("render: no data to plot")
	// ErrUnknownChart is returned for a ChartKind outside AllCharts.
	ErrUnknownChart = errors.New("render: unknown chart")
)

// Title returns the heading shown above the chart.
func (k ChartKind) Title() string {
	switch k {
	case ChartEngagement:
		return "Engagement Rate (ER)"
	case ChartGrowth:
		return "Followers Growth"
	case ChartAccountsScatter:
		return "Média de ER vs Followers Max"
	case ChartCategoriesScatter:
		return "Média de ER vs Followers Max por Categoria"
	case ChartCategoriesBar:
		return "Média de Engagement Rate (ER) por Categoria"
	}
	return string(k)
}

// ParseChartKind validates a chart name.
func ParseChartKind(name string) (ChartKind, error) {
	for _, k := range AllCharts {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// Charts draws dashboard views as PNG images.
type Charts struct {
	formatter *services.Formatter
	height    int
	barWidth  int
}

// NewCharts creates a chart renderer using formatter for axis labels.
func NewCharts(formatter *services.Formatter) *Charts {
	return &Charts{formatter: formatter, height: 512, barWidth: 40}
}

// Render writes one chart of view to w as PNG.
func (c *Charts) Render(w io.Writer, kind ChartKind, view *models.DashboardView) error {
	switch kind {
	case ChartEngagement:
		return c.bars(w, kind.Title(), barValues(view.EngagementBars))
	case ChartGrowth:
		return c.bars(w, kind.Title(), barValues(view.GrowthBars))
	case ChartAccountsScatter:
		return c.scatter(w, kind.Title(), view.AccountAggregates)
	case ChartCategoriesScatter:
		return c.scatter(w, kind.Title(), view.CategoryAggregates)
	case ChartCategoriesBar:
		values := make([]chart.Value, 0, len(view.CategoryBars))
		for _, a := range view.CategoryBars {
			values = append(values, chart.Value{Label: a.Key, Value: a.MeanEngagement})
		}
		return c.bars(w, kind.Title(), values)
	}
	return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
}

// WriteAll renders every chart of view into dir on the pool's workers.
// Charts without data are skipped. It returns the files written.
func (c *Charts) WriteAll(ctx context.Context, view *models.DashboardView, dir string, pool *utils.WorkerPool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("render: create chart dir: %w", err)
	}

	paths := make([]string, len(AllCharts))
	for i, kind := range AllCharts {
		i, kind := i, kind
		pool.Submit(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, string(kind)+".png")
			if err := c.writeFile(path, kind, view); err != nil {
				if errors.Is(err, ErrNoData) {
					return nil
				}
				return fmt.Errorf("render %s: %w", kind, err)
			}
			paths[i] = path
			return nil
		})
	}
	if errs := pool.Wait(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	written := paths[:0]
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	return written, nil
}

func (c *Charts) writeFile(path string, kind ChartKind, view *models.DashboardView) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Render(f, kind, view); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func barValues(points []models.BarPoint) []chart.Value {
	values := make([]chart.Value, 0, len(points))
	for _, p := range points {
		values = append(values, chart.Value{Label: p.Label, Value: p.Value})
	}
	return values
}

// bars draws at most maxBars bars, keeping the first ones since every series
// arrives sorted highest first. Bars narrow so the canvas stays within maxWidth.
func (c *Charts) bars(w io.Writer, title string, values []chart.Value) error {
	if len(values) == 0 {
		return ErrNoData
	}
	if len(values) > maxBars {
		values = values[:maxBars]
	}

	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v.Value)
		hi = math.Max(hi, v.Value)
	}
	lo, hi = padRange(lo, hi)

	barWidth, spacing, width := c.barLayout(len(values))

	graph := chart.BarChart{
		Title:        title,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:        width,
		Height:       c.height,
		BarWidth:     barWidth,
		BarSpacing:   spacing,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			ValueFormatter: chart.PercentValueFormatter,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: values,
	}
	return graph.Render(chart.PNG, w)
}

const (
	maxBars     = 150
	minWidth    = 800
	maxWidth    = 2400
	axisReserve = 120
)

func (c *Charts) barLayout(n int) (barWidth, spacing, width int) {
	barWidth, spacing = c.barWidth, 10
	if per := (maxWidth - axisReserve) / n; per < barWidth+spacing {
		spacing = per / 5
		barWidth = per - spacing
	}
	width = n*(barWidth+spacing) + axisReserve
	if width < minWidth {
		width = minWidth
	}
	return barWidth, spacing, width
}

// scatter plots mean ER against mean followers, one coloured series per
// group so the legend names them. Dot size follows the follower count.
func (c *Charts) scatter(w io.Writer, title string, aggs []models.Aggregate) error {
	if len(aggs) == 0 {
		return ErrNoData
	}

	xlo, xhi := aggs[0].MeanEngagement, aggs[0].MeanEngagement
	ylo, yhi := aggs[0].MeanFollowers, aggs[0].MeanFollowers
	for _, a := range aggs[1:] {
		xlo, xhi = math.Min(xlo, a.MeanEngagement), math.Max(xhi, a.MeanEngagement)
		ylo, yhi = math.Min(ylo, a.MeanFollowers), math.Max(yhi, a.MeanFollowers)
	}
	maxFollowers := yhi
	xlo, xhi = padRange(xlo, xhi)
	ylo, yhi = padRange(ylo, yhi)

	series := make([]chart.Series, 0, len(aggs))
	for i, a := range aggs {
		series = append(series, chart.ContinuousSeries{
			Name: a.Key,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dotWidth(a.MeanFollowers, maxFollowers),
				DotColor:    paletteColor(i),
			},
			XValues: []float64{a.MeanEngagement},
			YValues: []float64{a.MeanFollowers},
		})
	}

	graph := chart.Chart{
		Title:      title,
		Height:     c.height,
		Width:      1024,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           models.ColEngagement,
			ValueFormatter: chart.PercentValueFormatter,
			Range:          &chart.ContinuousRange{Min: xlo, Max: xhi},
		},
		YAxis: chart.YAxis{
			Name:           models.ColFollowers,
			ValueFormatter: c.thousandsFormatter,
			Range:          &chart.ContinuousRange{Min: ylo, Max: yhi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return graph.Render(chart.PNG, w)
}

func (c *Charts) thousandsFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return c.formatter.Thousands(f)
	}
	return ""
}

// padRange widens [lo, hi] by 10% and never returns an empty interval.
func padRange(lo, hi float64) (float64, float64) {
	if hi == lo {
		delta := math.Abs(lo) * 0.1
		if delta == 0 {
			delta = 1
		}
		return lo - delta, hi + delta
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

func dotWidth(followers, max float64) float64 {
	const minDot, maxDot = 4.0, 24.0
	if max <= 0 {
		return minDot
	}
	return minDot + (maxDot-minDot)*math.Sqrt(followers/max)
}

func paletteColor(i int) drawing.Color {
	return chart.GetAlternateColor(i)
}

// HasData reports whether kind has anything to plot for view.
func HasData(kind ChartKind, view *models.DashboardView) bool {
	switch kind {
	case ChartEngagement:
		return len(view.EngagementBars) > 0
	case ChartGrowth:
		return len(view.GrowthBars) > 0
	case ChartAccountsScatter:
		return len(view.AccountAggregates) > 0
	case ChartCategoriesScatter:
		return len(view.CategoryAggregates) > 0
	case ChartCategoriesBar:
		return len(view.CategoryBars) > 0
	}
	return false
}
