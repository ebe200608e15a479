package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dahby/13-14-relationship-mapping/config"
	"github.com/dahby/13-14-relationship-mapping/internal/api"
	"github.com/dahby/13-14-relationship-mapping/internal/middleware"
	"github.com/dahby/13-14-relationship-mapping/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	http    *http.Server
	logger  *slog.Logger
	limiter *middleware.RateLimiter
}

// Option customizes a Server
type Option func(*Server)

// WithLogger sets the logger used for request logs. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimiter limits the mutating food routes
func WithRateLimiter(limiter *middleware.RateLimiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// New creates a new server instance
func New(cfg *config.Config, foods service.IFoodService, opts ...Option) *Server {
	s := &Server{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(s.logger),
		middleware.ErrorHandler(),
		middleware.CORS(cfg.CORSOrigins),
	)
	api.RegisterRoutes(router, foods, s.limiter)
	s.router = router

	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens on the configured address and blocks until the server stops.
// It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the server stops
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
