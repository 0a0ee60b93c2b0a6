// ABOUTME: Assembles the HTTP server from configuration
// ABOUTME: Opens the project store, builds the middleware chain per route, and shuts down gracefully

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/fabric-designer/backend/cache"
	"github.com/markalston/fabric-designer/backend/config"
	"github.com/markalston/fabric-designer/backend/handlers"
	"github.com/markalston/fabric-designer/backend/metrics"
	"github.com/markalston/fabric-designer/backend/middleware"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/store"
)

// Server owns every long-lived resource of the backend.
type Server struct {
	cfg     *config.Config
	store   store.ProjectStore
	cache   *cache.Cache[models.TopologyResponse]
	metrics *metrics.Metrics
	handler http.Handler
}

// New opens the configured store and builds the routed handler.
func New(cfg *config.Config) (*Server, error) {
	projects, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}

	s := &Server{
		cfg:     cfg,
		metrics: metrics.New(),
		cache:   cache.New[models.TopologyResponse](time.Duration(cfg.CacheTTL) * time.Second),
	}
	s.store = store.Observe(projects, s.metrics.ObserveStore)

	h := handlers.NewHandler(cfg, s.store, s.cache, s.metrics)
	s.handler = s.routes(h)
	return s, nil
}

// routes registers every API route behind the middleware chain:
// logging, CORS, metrics, then rate limiting.
func (s *Server) routes(h *handlers.Handler) http.Handler {
	var defaultLimiter, writeLimiter *middleware.RateLimiter
	if s.cfg.RateLimitEnabled {
		defaultLimiter = middleware.NewRateLimiter(s.cfg.RateLimitDefault, time.Minute)
		writeLimiter = middleware.NewRateLimiter(s.cfg.RateLimitWrite, time.Minute)
		slog.Info("Rate limiting enabled", "default_per_min", s.cfg.RateLimitDefault, "write_per_min", s.cfg.RateLimitWrite)
	}

	cors := middleware.CORS(s.cfg.CORSAllowedOrigins)
	chain := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Chain(next,
			middleware.LogRequest,
			cors,
			middleware.Metrics(s.metrics),
			middleware.RateLimit(defaultLimiter, middleware.ClientIP),
			middleware.RateLimit(writeLimiter, middleware.WriteMethods(middleware.ClientIP)),
		)
	}

	mux := http.NewServeMux()
	preflight := map[string]bool{}
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Method+" "+route.Path, chain(route.Handler))
		if !preflight[route.Path] {
			preflight[route.Path] = true
			mux.HandleFunc(http.MethodOptions+" "+route.Path, chain(func(http.ResponseWriter, *http.Request) {}))
		}
	}

	if s.cfg.MetricsEnabled {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return mux
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on cfg.Port until ctx is cancelled, then drains in-flight
// requests for up to cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the cache and the store.
func (s *Server) Close() error {
	s.cache.Close()
	return s.store.Close()
}
