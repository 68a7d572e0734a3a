package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"suba-radar/models"
	"suba-radar/services"
	"suba-radar/utils"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderEveryChart(t *testing.T) {
	charts := NewCharts(services.NewFormatter("."))
	view := sampleView(models.Criteria{})

	for _, kind := range AllCharts {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			if err := charts.Render(&buf, kind, view); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestRenderEmptyView(t *testing.T) {
	charts := NewCharts(services.NewFormatter("."))
	view := emptyView()

	for _, kind := range AllCharts {
		var buf bytes.Buffer
		err := charts.Render(&buf, kind, view)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("%s: got %v, want ErrNoData", kind, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: wrote %d bytes for an empty view", kind, buf.Len())
		}
	}
}

func TestRenderUnknownChart(t *testing.T) {
	charts := NewCharts(services.NewFormatter("."))
	err := charts.Render(&bytes.Buffer{}, ChartKind("pie"), sampleView(models.Criteria{}))
	if !errors.Is(err, ErrUnknownChart) {
		t.Errorf("got %v, want ErrUnknownChart", err)
	}
}

func TestParseChartKind(t *testing.T) {
	tests := []struct {
		name    string
		want    ChartKind
		wantErr bool
	}{
		{"engagement", ChartEngagement, false},
		{"categories-bar", ChartCategoriesBar, false},
		{"accounts-scatter", ChartAccountsScatter, false},
		{"Engagement", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseChartKind(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChartKind(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChartKind(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPadRange(t *testing.T) {
	tests := []struct {
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{0, 10, -1, 11},
		{5, 5, 4.5, 5.5},
		{0, 0, -1, 1},
		{-2, 2, -2.4, 2.4},
	}

	for _, tt := range tests {
		lo, hi := padRange(tt.lo, tt.hi)
		if diff(lo, tt.wantLo) > 1e-9 || diff(hi, tt.wantHi) > 1e-9 {
			t.Errorf("padRange(%v, %v) = (%v, %v), want (%v, %v)", tt.lo, tt.hi, lo, hi, tt.wantLo, tt.wantHi)
		}
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestWriteAll(t *testing.T) {
	charts := NewCharts(services.NewFormatter("."))
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := charts.WriteAll(context.Background(), sampleView(models.Criteria{}), dir, utils.NewWorkerPool(2))
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != len(AllCharts) {
		t.Fatalf("wrote %d charts, want %d", len(paths), len(AllCharts))
	}
	for i, p := range paths {
		if filepath.Base(p) != string(AllCharts[i])+".png" {
			t.Errorf("paths[%d] = %s, out of display order", i, p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s is not a PNG", p)
		}
	}
}

func TestWriteAllSkipsEmpty(t *testing.T) {
	charts := NewCharts(services.NewFormatter("."))
	dir := t.TempDir()

	paths, err := charts.WriteAll(context.Background(), emptyView(), dir, utils.NewWorkerPool(2))
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("wrote %v for an empty view", paths)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("left %d files behind", len(entries))
	}
}

func TestRenderLargeView(t *testing.T) {
	var table []*models.Snapshot
	for i := 0; i < 3000; i++ {
		table = append(table, &models.Snapshot{
			Date:            day("2024-01-01").AddDate(0, 0, i%30),
			Account:         fmt.Sprintf("acct%02d", i%40),
			FollowersMax:    float64(1000 + i),
			FollowersGrowth: float64(i%13-6) / 100,
			EngagementRate:  float64(i%97) / 1000,
			Categories:      "Moda",
		})
	}
	d := services.NewDashboard(utils.NewLoggerTo(io.Discard), services.NewFormatter("."))
	view := d.Recompute(table, models.Criteria{})
	charts := NewCharts(services.NewFormatter("."))

	for _, kind := range []ChartKind{ChartEngagement, ChartGrowth} {
		var buf bytes.Buffer
		if err := charts.Render(&buf, kind, view); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		cfg, err := png.DecodeConfig(&buf)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if cfg.Width > maxWidth {
			t.Errorf("%s: width %d exceeds %d", kind, cfg.Width, maxWidth)
		}
	}
}

func TestRenderManyBarsStaysBounded(t *testing.T) {
	points := make([]models.BarPoint, 3000)
	for i := range points {
		points[i] = models.BarPoint{Label: fmt.Sprintf("acct%04d", i), Value: float64(3000-i) / 10000}
	}
	view := &models.DashboardView{EngagementBars: points}

	var buf bytes.Buffer
	if err := NewCharts(services.NewFormatter(".")).Render(&buf, ChartEngagement, view); err != nil {
		t.Fatalf("Render: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width > maxWidth || cfg.Width < minWidth {
		t.Errorf("width = %d, want within [%d, %d]", cfg.Width, minWidth, maxWidth)
	}
}

func TestBarLayout(t *testing.T) {
	c := NewCharts(services.NewFormatter("."))

	tests := []struct {
		n                 int
		barWidth, spacing int
		width             int
	}{
		{3, 40, 10, minWidth},
		{40, 40, 10, 40*50 + axisReserve},
		{maxBars, 12, 3, maxBars*15 + axisReserve},
	}
	for _, tt := range tests {
		bw, sp, w := c.barLayout(tt.n)
		if bw != tt.barWidth || sp != tt.spacing || w != tt.width {
			t.Errorf("barLayout(%d) = (%d, %d, %d), want (%d, %d, %d)", tt.n, bw, sp, w, tt.barWidth, tt.spacing, tt.width)
		}
	}
}
