// Package server exposes a binding module over JSON/HTTP.
//
// Routes:
//
//	POST   /v1/call                        {"function": "...", "args": [...]}
//	POST   /v1/objects                     {"class": "...", "args": [...]}
//	GET    /v1/objects/{handle}
//	DELETE /v1/objects/{handle}
//	POST   /v1/objects/{handle}/{method}   {"args": [...]}
//	GET    /v1/symbols
//	GET    /health
//	GET    /metrics
//
// Request bodies are decoded with json.Decoder.UseNumber so that unsigned
// 64-bit arguments above 2^53 reach the binding layer exactly.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/config"
	"github.com/agbru/numkit/internal/logging"
)

// HTTP server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 10 * time.Second
	WriteTimeout      = 30 * time.Second
	IdleTimeout       = 60 * time.Second
)

// Server serves a binding module over HTTP.
type Server struct {
	module          *binding.Module
	httpServer      *http.Server
	logger          logging.Logger
	metrics         *Metrics
	security        SecurityConfig
	callTimeout     time.Duration
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics replaces the server's metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSecurityConfig overrides the security settings derived from the
// application configuration.
func WithSecurityConfig(sc SecurityConfig) Option {
	return func(s *Server) { s.security = sc }
}

// NewServer creates a server for m configured from cfg.
func NewServer(m *binding.Module, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		module:          m,
		security:        SecurityConfigFrom(cfg),
		callTimeout:     cfg.Timeout,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.callTimeout <= 0 {
		s.callTimeout = config.DefaultTimeout
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = config.DefaultShutdownTimeout
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, SecurityMiddleware(s.security, s.metricsMiddleware(h)))
	}
	route("/v1/call", s.handleCall)
	route("/v1/objects", s.handleObjects)
	route("/v1/objects/{handle}", s.handleObject)
	route("/v1/objects/{handle}/{method}", s.handleInvoke)
	route("/v1/symbols", s.handleSymbols)
	route("/health", s.handleHealth)
	route("/metrics", s.handleMetrics)
	route("/", s.handleNotFound)
	return mux
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the shutdown timeout. It returns nil after a clean
// shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", logging.Duration("timeout", s.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware tracks in-flight requests, counts and latency.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(route, r.Method, rec.status, time.Since(start))
	}
}
