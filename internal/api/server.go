package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miastoportal/harvester/internal/config"
	"github.com/miastoportal/harvester/internal/registry"
	"github.com/miastoportal/harvester/internal/scraper"
	"github.com/miastoportal/harvester/internal/store"
	"github.com/miastoportal/harvester/internal/types"
)

// Server exposes the scrape trigger, the article read API and the
// source admin API over HTTP.
type Server struct {
	cfg      config.ServerConfig
	orch     *scraper.Orchestrator
	store    store.ArticleStore
	taxonomy *store.Taxonomy
	registry *registry.SourceRegistry
	logger   *slog.Logger
	httpSrv  *http.Server
}

type scrapeSummary struct {
	Source   string `json:"source"`
	Articles int    `json:"articles"`
	Skipped  bool   `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// NewServer wires the routes onto a gin engine.
func NewServer(cfg config.ServerConfig, orch *scraper.Orchestrator, st store.ArticleStore, tax *store.Taxonomy, reg *registry.SourceRegistry, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		orch:     orch,
		store:    st,
		taxonomy: tax,
		registry: reg,
		logger:   logger.With("component", "api"),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/scrape", s.handleScrape)
		api.GET("/articles", s.handleArticles)
		api.GET("/categories", s.handleCategories)
		api.GET("/tags", s.handleTags)
		api.GET("/sources", s.handleListSources)
		api.PUT("/sources", s.handleUpsertSource)
		api.DELETE("/sources/:name", s.handleRemoveSource)
		api.GET("/health", s.handleHealth)
	}

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// handleScrape triggers a synchronous scrape cycle. The response is
// always 200 with per-source summaries; scrape failures are reported in
// the body, never as a transport error. An unknown ?source= is the one
// client mistake that earns a 404.
func (s *Server) handleScrape(c *gin.Context) {
	ctx := c.Request.Context()

	var results []scraper.SourceResult
	if name := c.Query("source"); name != "" {
		result, err := s.orch.ScrapeByName(ctx, name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		results = []scraper.SourceResult{result}
	} else {
		results = s.orch.ScrapeAll(ctx)
	}

	summaries := make([]scrapeSummary, len(results))
	total := 0
	for i, r := range results {
		summaries[i] = scrapeSummary{
			Source:   r.Source,
			Articles: r.Articles,
			Skipped:  r.Skipped,
			Error:    scrapeError(r),
		}
		total += r.Articles
	}
	c.JSON(http.StatusOK, gin.H{
		"articles": total,
		"results":  summaries,
	})
}

// scrapeError renders a result's failure for the response body. A fresh
// skip is expected behavior, not an error.
func scrapeError(r scraper.SourceResult) string {
	if r.Err == nil || errors.Is(r.Err, types.ErrSkippedFresh) {
		return ""
	}
	return r.Err.Error()
}

func (s *Server) handleArticles(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		articles []*types.Article
		err      error
	)
	switch {
	case c.Query("category") != "":
		articles, err = s.store.ArticlesByCategory(ctx, c.Query("category"))
	case c.Query("tag") != "":
		articles, err = s.store.ArticlesByTag(ctx, c.Query("tag"))
	case c.Query("featured") == "true":
		articles, err = s.store.FeaturedArticles(ctx)
	default:
		articles, err = s.store.Articles(ctx)
	}
	if err != nil {
		s.logger.Error("article query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "article query failed"})
		return
	}
	if articles == nil {
		articles = []*types.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.taxonomy.Categories())
}

func (s *Server) handleTags(c *gin.Context) {
	c.JSON(http.StatusOK, s.taxonomy.Tags())
}

func (s *Server) handleListSources(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.List())
}

func (s *Server) handleUpsertSource(c *gin.Context) {
	var src types.SourceConfig
	if err := c.ShouldBindJSON(&src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source payload: " + err.Error()})
		return
	}
	if err := config.ValidateSource(src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.registry.Upsert(src)
	s.logger.Info("source upserted", "source", src.Name)
	c.JSON(http.StatusOK, src)
}

func (s *Server) handleRemoveSource(c *gin.Context) {
	name := c.Param("name")
	if !s.registry.Remove(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("source %q not found", name)})
		return
	}
	s.logger.Info("source removed", "source", name)
	c.JSON(http.StatusOK, gin.H{"removed": name})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": config.Version,
		"sources": len(s.registry.List()),
	})
}
