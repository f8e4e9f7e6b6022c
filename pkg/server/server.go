package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/stocknav/pkg/middleware"
	"github.com/vango-dev/stocknav/pkg/router"
)

// Server serves the app shell, the navigation endpoints and live
// navigation sessions for one resolver.
type Server struct {
	config   Config
	resolver *router.Resolver
	logger   *slog.Logger

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	tracer   *middleware.Tracer
	guards   []router.Guard

	shell    *shell
	upgrader websocket.Upgrader

	// ctx is cancelled on shutdown; live sessions run under it.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	live       map[*websocket.Conn]struct{}
	sessions   sync.WaitGroup
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder and the gatherer /metrics exposes.
// Without it the server registers its own metrics on a private registry.
func WithMetrics(metrics *middleware.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = metrics
		s.gatherer = gatherer
	}
}

// WithTracer sets the tracer (default middleware.NewTracer()).
func WithTracer(tracer *middleware.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithGuards appends guards to every live session's navigator.
func WithGuards(guards ...router.Guard) Option {
	return func(s *Server) {
		s.guards = append(s.guards, guards...)
	}
}

// New creates a server for resolver. It fails only when the configured
// static directory has an unreadable index.html.
func New(config Config, resolver *router.Resolver, opts ...Option) (*Server, error) {
	config.fillDefaults()

	s := &Server{
		config:   config,
		resolver: resolver,
		logger:   slog.Default(),
		live:     make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil && !config.DisableMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.metrics = middleware.NewMetrics(middleware.WithRegistry(reg))
		s.gatherer = reg
	}
	if s.tracer == nil {
		s.tracer = middleware.NewTracer()
	}

	sh, err := loadShell(config.StaticDir, resolver.Mode(), resolver.Base())
	if err != nil {
		return nil, err
	}
	s.shell = sh

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     config.CheckOrigin,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Config returns the effective configuration.
func (s *Server) Config() Config { return s.config }

// Resolver returns the resolver the server serves.
func (s *Server) Resolver() *router.Resolver { return s.resolver }

// Handler returns the HTTP handler with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/_nav", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Get("/routes", s.handleRoutes)
		r.Get("/ws", s.handleLive)
	})
	if !s.config.DisableMetrics && s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/*", s.handleApp)
	r.Head("/*", s.handleApp)
	return r
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = hs
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			"address", ln.Addr().String(),
			"mode", s.resolver.Mode().String(),
			"base", s.resolver.Base(),
		)
		errCh <- hs.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown closes live sessions and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.closeLive()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	hs := s.httpServer
	s.mu.Unlock()
	if hs != nil {
		if err := hs.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// LiveSessions returns the number of open live sessions.
func (s *Server) LiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *Server) closeLive() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.live))
	for conn := range s.live {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			deadline(s.config.WriteTimeout))
		_ = conn.Close()
	}
}
