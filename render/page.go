package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"suba-radar/models"
	"suba-radar/services"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"selected": func(sel map[string]map[string]bool, field, value string) bool {
		return sel[field][value]
	},
	"table": func(metric string, rows []models.TableRow) tableData {
		return tableData{Metric: metric, Rows: rows}
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

type tableData struct {
	Metric string
	Rows   []models.TableRow
}

// ChartImage is one chart slot on the page. An empty Src renders a
// "no data" placeholder.
type ChartImage struct {
	Title string
	Src   template.URL
}

// Pager links the pages of the two tables. Prev and Next are query strings.
type Pager struct {
	Page  int
	Pages int
	Prev  template.URL
	Next  template.URL
}

// PageData is the input of the dashboard template.
type PageData struct {
	Title       string
	Interactive bool
	View        *models.DashboardView
	Options     models.FilterOptions
	Selected    map[string]map[string]bool
	Growth      []models.TableRow
	Engagement  []models.TableRow
	Pager       Pager
	Charts      []ChartImage
}

// NewPageData builds the template input for view. Tables are cut to pageSize
// rows (0 keeps everything) starting at the 1-based page taken from query.
// chartSrc supplies the image source for each chart, "" meaning no image.
func NewPageData(title string, view *models.DashboardView, opts models.FilterOptions,
	query url.Values, pageSize int, chartSrc func(ChartKind) string) *PageData {
	data := &PageData{
		Title:      title,
		View:       view,
		Options:    opts,
		Selected:   selection(query),
		Growth:     view.GrowthTable,
		Engagement: view.EngagementTable,
	}

	if pageSize > 0 && view.RowCount > 0 {
		pages := (view.RowCount + pageSize - 1) / pageSize
		page, _ := strconv.Atoi(query.Get("page"))
		if page < 1 {
			page = 1
		}
		if page > pages {
			page = pages
		}
		lo := (page - 1) * pageSize
		hi := lo + pageSize
		if hi > view.RowCount {
			hi = view.RowCount
		}
		data.Growth = view.GrowthTable[lo:hi]
		data.Engagement = view.EngagementTable[lo:hi]
		data.Pager = Pager{Page: page, Pages: pages}
		if page > 1 {
			data.Pager.Prev = pageQuery(query, page-1)
		}
		if page < pages {
			data.Pager.Next = pageQuery(query, page+1)
		}
	}

	for _, kind := range AllCharts {
		data.Charts = append(data.Charts, ChartImage{Title: kind.Title(), Src: template.URL(chartSrc(kind))})
	}
	return data
}

// WritePage renders the dashboard HTML.
func WritePage(w io.Writer, data *PageData) error {
	return pageTemplate.Execute(w, data)
}

// selection marks the chosen option values per field. Flag values are
// normalised to "true"/"false" so aliases like "sim" match the options.
func selection(query url.Values) map[string]map[string]bool {
	sel := make(map[string]map[string]bool)
	for _, field := range []string{
		services.ParamAccount, services.ParamCategory, services.ParamVerified,
		services.ParamBrand, services.ParamCluster,
	} {
		values := query[field]
		if len(values) == 0 {
			continue
		}
		isFlag := field == services.ParamVerified || field == services.ParamBrand
		sel[field] = make(map[string]bool, len(values))
		for _, v := range values {
			if isFlag {
				if strings.TrimSpace(v) == "" {
					continue
				}
				b, err := services.ParseFlag(v)
				if err != nil {
					continue
				}
				v = strconv.FormatBool(b)
			}
			sel[field][v] = true
		}
	}
	return sel
}

func pageQuery(query url.Values, page int) template.URL {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return template.URL(q.Encode())
}

// DataURI renders kind as an inline PNG for pages opened outside the server.
// It returns "" when the chart has no data.
func (c *Charts) DataURI(kind ChartKind, view *models.DashboardView) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf, kind, view); err != nil {
		if errors.Is(err, ErrNoData) {
			return "", nil
		}
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
