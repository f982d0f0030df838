// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	POST   /v1/layouts        lay out an item set
//	DELETE /v1/layouts/{key}  drop a cached layout
//	GET    /healthz           liveness and build info
//
// A layout request carries the items and optional engine options:
//
//	{"items": [{"id": "A"}, {"id": "B", "prerequisites": ["A"]}],
//	 "options": {"max_width": 4}}
//
// The response is the layout JSON. The format query parameter selects
// another artifact (svg, dot or yaml). Responses carry X-Cache (hit or miss)
// and X-Layout-Key, the key DELETE accepts.
//
// # Errors
//
// Errors are JSON objects with a code and a message. Input errors (bad JSON,
// unknown prerequisites, cycles) are 422; a broken layout invariant is 500.
//
// # Middleware
//
// Every response carries X-Request-ID, taken from the request or generated.
// Requests beyond the configured rate get 429 before any work is done.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/layerview/pkg/pipeline"
)

// Config configures a Server.
type Config struct {
	// Defaults are the options a request starts from; request options
	// override them field by field.
	Defaults pipeline.Options

	// Rate and Burst configure the token bucket shared by all clients.
	// A Rate of zero disables limiting.
	Rate  float64
	Burst int

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64

	// Timeout bounds the wait for one layout. Zero means no bound.
	Timeout time.Duration
}

// ConfigFrom builds a server config from a loaded config file.
func ConfigFrom(cfg pipeline.Config) (Config, error) {
	timeout, err := cfg.Server.TimeoutDuration()
	if err != nil {
		return Config{}, err
	}
	defaults := cfg.Options()
	defaults.Formats = nil
	return Config{
		Defaults:     defaults,
		Rate:         cfg.Server.Rate,
		Burst:        cfg.Server.Burst,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Timeout:      timeout,
	}, nil
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	cfg     Config
	limiter *rate.Limiter
	logger  *log.Logger
	router  chi.Router
}

// New creates a server over runner. A nil logger discards output.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	s := &Server{
		runner:  runner,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/", s.handleLayout)
		r.Delete("/{key}", s.handleInvalidate)
	})
	return r
}

// Handler returns the router with all middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down,
// giving in-flight requests up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
