package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/user/catalog-api/internal/catalog"
	"github.com/user/catalog-api/internal/config"
	"github.com/user/catalog-api/internal/model"
	"github.com/user/catalog-api/internal/store"
	"github.com/user/catalog-api/internal/validation"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

type counter func(ctx context.Context) (int64, error)

// Server serves the catalog API, health checks and metrics
type Server struct {
	store     store.Store
	router    *gin.Engine
	server    *http.Server
	startTime time.Time
	counters  map[string]counter
}

// NewServer creates a new HTTP server instance
func NewServer(st store.Store, cfg *config.ServerConfig) *Server {
	s := &Server{
		store:     st,
		router:    gin.New(),
		startTime: time.Now(),
		counters:  make(map[string]counter),
	}

	s.setupRoutes(cfg)
	return s
}

// setupRoutes configures middleware and routes
func (s *Server) setupRoutes(cfg *config.ServerConfig) {
	s.router.Use(gin.Recovery(), requestID(), requestLogger())
	if origins := cfg.Origins(); len(origins) > 0 {
		s.router.Use(corsPolicy(origins))
	}

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(rateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	db := s.store.DB()
	v := validation.New(db)

	categories := newResourceHandler[model.Category](db, v, catalog.CategoriesResource(),
		func() catalog.Form[model.Category] { return &catalog.CategoryForm{} })
	genres := newResourceHandler[model.Genre](db, v, catalog.GenresResource(),
		func() catalog.Form[model.Genre] { return &catalog.GenreForm{} })
	castMembers := newResourceHandler[model.CastMember](db, v, catalog.CastMembersResource(),
		func() catalog.Form[model.CastMember] { return &catalog.CastMemberForm{} })
	videos := newResourceHandler[model.Video](db, v, catalog.VideosResource(),
		func() catalog.Form[model.Video] { return &catalog.VideoForm{} })

	categories.register(api)
	genres.register(api)
	castMembers.register(api)
	videos.register(api)

	s.counters[categories.res.Name] = countLive(categories.repo)
	s.counters[genres.res.Name] = countLive(genres.repo)
	s.counters[castMembers.res.Name] = countLive(castMembers.repo)
	s.counters[videos.res.Name] = countLive(videos.repo)
}

func countLive[T any](repo *store.Repository[T]) counter {
	return func(ctx context.Context) (int64, error) {
		return repo.Count(ctx, store.Scope{})
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports database connectivity and uptime, and refreshes the
// entity gauges while the database is reachable
func (s *Server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	} else {
		s.refreshCounts(ctx)
	}

	uptime := time.Since(s.startTime).Round(time.Second).String()

	status := "healthy"
	code := http.StatusOK
	if dbStatus != "healthy" {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   uptime,
	})
}

func (s *Server) refreshCounts(ctx context.Context) {
	for name, count := range s.counters {
		n, err := count(ctx)
		if err != nil {
			log.Warn().Err(err).Str("resource", name).Msg("Failed to count rows")
			continue
		}
		UpdateEntityCount(name, n)
	}
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
