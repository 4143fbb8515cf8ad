// Package server exposes the evaluator and renderer over HTTP.
//
// Routes:
//
//	GET /healthz      liveness check
//	GET /evaluate     escape result of one point as JSON
//	GET /render.png   a rendered frame as a PNG image
//	GET /metrics      Prometheus metrics
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds the listener settings and request defaults.
type Config struct {
	Addr string
	// ReadTimeout and WriteTimeout bound one connection.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ShutdownTimeout bounds the graceful drain after the context ends.
	ShutdownTimeout time.Duration
	// RenderTimeout bounds one /render.png request.
	RenderTimeout time.Duration
	// MaxIterations, EscapeRadius and Palette are used when a request omits them.
	MaxIterations int
	EscapeRadius  float64
	Palette       string
	// Workers bounds the render workers of one request; zero uses all CPUs.
	Workers int
}

// DefaultConfig returns the settings used by --serve.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:            addr,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RenderTimeout:   30 * time.Second,
		MaxIterations:   500,
		EscapeRadius:    escape.DefaultEscapeRadius,
		Palette:         palette.Default,
	}
}

// Server is the HTTP front end.
type Server struct {
	config   Config
	security SecurityConfig
	metrics  *metrics.Metrics
	logger   logging.Logger
	renderer Renderer
	router   chi.Router
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the metrics registry shared with the renderer.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRenderer replaces the frame renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Server) { s.renderer = r }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// NewServer builds a server and its routes.
func NewServer(config Config, opts ...Option) *Server {
	s := &Server{
		config:   config,
		security: DefaultSecurityConfig(),
		renderer: FrameRenderer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewMetrics()
	}
	if s.logger == nil {
		s.logger = logging.NewDefaultLogger()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle("/healthz", s.wrap(s.handleHealth))
	r.Handle("/evaluate", s.wrap(s.handleEvaluate))
	r.Handle("/render.png", s.wrap(s.handleRender))
	r.Handle("/metrics", s.wrap(s.handleMetrics))
	return r
}

// wrap applies the security and metrics middleware to a handler.
func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done, then drains in-flight requests for at most
// ShutdownTimeout. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// metricsMiddleware tracks in-flight requests and records the status and
// latency of each one.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(r.URL.Path, status, time.Since(start))
	}
}
