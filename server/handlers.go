package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"suba-radar/models"
	"suba-radar/render"
	"suba-radar/services"
	"suba-radar/storage"
)

const pageTitle = "Radar de Influenciadores"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": len(s.table)})
}

func (s *Server) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.options)
}

func (s *Server) getDashboard(c *gin.Context) {
	view, ok := s.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// chart serves /charts/<kind>.png. An empty selection yields 204.
func (s *Server) chart(c *gin.Context) {
	name, ok := strings.CutSuffix(c.Param("file"), ".png")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	kind, err := render.ParseChartKind(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	view, ok := s.view(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.charts.Render(&buf, kind, view); err != nil {
		if errors.Is(err, render.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		s.logger.Error("[server] Chart %s failed: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// export serves /export/<table>.csv for the growth and engagement tables.
func (s *Server) export(c *gin.Context) {
	name, ok := strings.CutSuffix(c.Param("file"), ".csv")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	view, ok := s.view(c)
	if !ok {
		return
	}

	var metric string
	var rows []models.TableRow
	switch name {
	case "growth":
		metric, rows = models.ColGrowth, view.GrowthTable
	case "engagement":
		metric, rows = models.ColEngagement, view.EngagementTable
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown table %q", name)})
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteTable(&buf, metric, rows); err != nil {
		s.logger.Error("[server] Export %s failed: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) page(c *gin.Context) {
	view, ok := s.view(c)
	if !ok {
		return
	}

	query := c.Request.URL.Query()
	filters := make(url.Values, len(query))
	for k, v := range query {
		if k != "page" {
			filters[k] = v
		}
	}
	chartQuery := encodeQuery(filters)

	data := render.NewPageData(pageTitle, view, s.options, query, s.cfg.TablePageSize, func(kind render.ChartKind) string {
		if !render.HasData(kind, view) {
			return ""
		}
		return "/charts/" + string(kind) + ".png" + chartQuery
	})
	data.Interactive = true

	var buf bytes.Buffer
	if err := render.WritePage(&buf, data); err != nil {
		s.logger.Error("[server] Page failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// view parses the filter parameters and recomputes the dashboard. On bad
// input it writes a 400 and returns false.
func (s *Server) view(c *gin.Context) (*models.DashboardView, bool) {
	criteria, err := services.CriteriaFromQuery(c.Request.URL.Query(), s.options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return s.dashboard.Recompute(s.table, criteria), true
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
