package render

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"suba-radar/models"
	"suba-radar/services"
)

func noCharts(ChartKind) string { return "" }

func TestWritePage(t *testing.T) {
	view := sampleView(models.Criteria{})
	opts := models.FilterOptions{
		Accounts:   []string{"ana", "bia", "caio"},
		Categories: []string{"Lifestyle", "Moda", "Viagem", models.EmptyCategory},
		Verified:   []bool{true, false},
		IsBrand:    []bool{false, true},
		Clusters:   []string{"Micro", "Macro", "Nano"},
	}
	query := url.Values{"account": {"bia"}, "verified": {"true"}}

	data := NewPageData("Radar", view, opts, query, 0, func(k ChartKind) string { return "/charts/" + string(k) + ".png" })
	data.Interactive = true

	var buf bytes.Buffer
	if err := WritePage(&buf, data); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>Radar</title>",
		"Crescimento da Base",
		"Taxa de Engajamento",
		`<option value="bia" selected>`,
		`<option value="true" selected>`,
		`src="/charts/engagement.png"`,
		"50.000",
		"30%",
		`value="2024-01-01"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(html, `<option value="ana" selected>`) {
		t.Error("ana should not be selected")
	}
}

func TestWritePageStatic(t *testing.T) {
	data := NewPageData("Radar", emptyView(), models.FilterOptions{}, url.Values{}, 10, noCharts)

	var buf bytes.Buffer
	if err := WritePage(&buf, data); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "<form") {
		t.Error("static page should not render the filter form")
	}
	if !strings.Contains(html, "Sem registros") {
		t.Error("empty tables should show a placeholder row")
	}
	if strings.Count(html, "Sem dados") != len(AllCharts) {
		t.Errorf("want %d chart placeholders", len(AllCharts))
	}
}

func TestNewPageDataPaging(t *testing.T) {
	view := sampleView(models.Criteria{})

	tests := []struct {
		page      string
		wantPage  int
		wantRows  int
		wantPrev  bool
		wantNext  bool
		firstAcct string
	}{
		{"", 1, 2, false, true, "caio"},
		{"2", 2, 1, true, false, "bia"},
		{"9", 2, 1, true, false, "bia"},
		{"x", 1, 2, false, true, "caio"},
	}

	for _, tt := range tests {
		q := url.Values{"page": {tt.page}, "account": {"ana", "bia", "caio"}}
		data := NewPageData("Radar", view, models.FilterOptions{}, q, 2, noCharts)

		if data.Pager.Page != tt.wantPage || data.Pager.Pages != 2 {
			t.Errorf("page=%q: got page %d of %d", tt.page, data.Pager.Page, data.Pager.Pages)
		}
		if len(data.Engagement) != tt.wantRows || len(data.Growth) != tt.wantRows {
			t.Errorf("page=%q: got %d/%d rows, want %d", tt.page, len(data.Engagement), len(data.Growth), tt.wantRows)
		}
		if (data.Pager.Prev != "") != tt.wantPrev || (data.Pager.Next != "") != tt.wantNext {
			t.Errorf("page=%q: prev=%q next=%q", tt.page, data.Pager.Prev, data.Pager.Next)
		}
		if len(data.Engagement) > 0 && data.Engagement[0].Account != tt.firstAcct {
			t.Errorf("page=%q: first engagement row %q, want %q", tt.page, data.Engagement[0].Account, tt.firstAcct)
		}
	}
}

func TestPageQueryKeepsFilters(t *testing.T) {
	q := url.Values{"account": {"ana", "bia"}, "page": {"1"}}
	got, err := url.ParseQuery(string(pageQuery(q, 3)))
	if err != nil {
		t.Fatal(err)
	}
	if got.Get("page") != "3" || len(got["account"]) != 2 {
		t.Errorf("pageQuery = %v", got)
	}
	if q.Get("page") != "1" {
		t.Error("pageQuery mutated its input")
	}
}

func TestDataURI(t *testing.T) {
	charts := NewCharts(services.NewFormatter("."))

	src, err := charts.DataURI(ChartEngagement, sampleView(models.Criteria{}))
	if err != nil {
		t.Fatalf("DataURI: %v", err)
	}
	if !strings.HasPrefix(src, "data:image/png;base64,") {
		t.Errorf("unexpected data URI prefix: %.40s", src)
	}

	src, err = charts.DataURI(ChartEngagement, emptyView())
	if err != nil || src != "" {
		t.Errorf("empty view: got (%q, %v), want empty", src, err)
	}
}

func TestSelectionNormalisesFlags(t *testing.T) {
	query := url.Values{
		"verified": {"sim"},
		"brand":    {"NÃO", " ", "maybe"},
		"account":  {"ana"},
	}
	sel := selection(query)

	if !sel["verified"]["true"] || sel["verified"]["sim"] {
		t.Errorf("verified selection = %v", sel["verified"])
	}
	if len(sel["brand"]) != 1 || !sel["brand"]["false"] {
		t.Errorf("brand selection = %v, want only false", sel["brand"])
	}
	if !sel["account"]["ana"] {
		t.Errorf("account selection = %v", sel["account"])
	}

	opts := models.FilterOptions{Verified: []bool{false, true}}
	data := NewPageData("Radar", sampleView(models.Criteria{}), opts, url.Values{"verified": {"sim"}}, 0, noCharts)
	data.Interactive = true
	var buf bytes.Buffer
	if err := WritePage(&buf, data); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if !strings.Contains(buf.String(), `<option value="true" selected>`) {
		t.Error("verified=sim should select the true option")
	}
}
