// Package gateway adapts loosely-shaped dashboard requests into the
// strict payload the NLPearl list endpoint requires and passes the
// upstream response back verbatim.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ai-scaleup/pearl-whitelabel/internal/config"
	"github.com/ai-scaleup/pearl-whitelabel/internal/metrics"
	"github.com/ai-scaleup/pearl-whitelabel/internal/pearl"
)

// UpstreamLister posts a normalized list request and returns the raw
// upstream status and body. *pearl.Client implements it.
type UpstreamLister interface {
	ListCallsRaw(ctx context.Context, outboundID, bearer string, req pearl.ListCallsRequest) (int, []byte, error)
}

// Server is the HTTP gateway server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	upstream   UpstreamLister
	config     *config.GatewayConfig
	metrics    *metrics.Metrics
	logger     *slog.Logger
	startTime  time.Time
}

// NewServer creates a new gateway server
func NewServer(upstream UpstreamLister, cfg *config.GatewayConfig, m *metrics.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		upstream:  upstream,
		config:    cfg,
		metrics:   m,
		logger:    logger,
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/calls", s.handleCalls)
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.logger.Info("starting gateway server", "addr", s.config.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down gateway server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
