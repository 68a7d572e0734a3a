package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suba-radar/config"
	"suba-radar/models"
	"suba-radar/render"
	"suba-radar/services"
	"suba-radar/utils"
)

// Server serves the dashboard page, its charts and a JSON API over one
// normalised base table. The table is read-only once the server is built.
type Server struct {
	cfg       *config.Config
	logger    *utils.Logger
	table     []*models.Snapshot
	options   models.FilterOptions
	dashboard *services.Dashboard
	charts    *render.Charts
	router    *gin.Engine
}

// New builds a Server and registers its routes.
func New(cfg *config.Config, logger *utils.Logger, table []*models.Snapshot) *Server {
	formatter := services.NewFormatter(cfg.ThousandsSeparator)
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		table:     table,
		options:   services.Options(table),
		dashboard: services.NewDashboard(logger, formatter),
		charts:    render.NewCharts(formatter),
	}

	gin.SetMode(ginMode(cfg.Debug, gin.Mode()))
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.health)
	router.GET("/", s.page)

	api := router.Group("/api")
	api.GET("/options", s.getOptions)
	api.GET("/dashboard", s.getDashboard)

	router.GET("/charts/:file", s.chart)
	router.GET("/export/:file", s.export)

	s.router = router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.HTTPAddr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Dashboard listening on %s", s.cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("[server] Shutdown requested")
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("[server] Stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[server] %s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// ginMode keeps gin quiet unless debug logging is on. Test mode is left alone.
func ginMode(debug bool, current string) string {
	switch {
	case current == gin.TestMode:
		return current
	case debug:
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
