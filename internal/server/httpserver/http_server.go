// Package httpserver wires the mdrender HTTP endpoints into an http.Server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/mdrender/internal/config"
	derrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	handlers "git.home.luguber.info/inful/mdrender/internal/server/handlers"
	smw "git.home.luguber.info/inful/mdrender/internal/server/middleware"
)

// Options carries the optional collaborators of a Server.
type Options struct {
	// Recorder counts HTTP requests; nil disables counting.
	Recorder metrics.Recorder
	// MetricsHandler is mounted at the configured metrics path when set.
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server serves the render, health and metrics endpoints.
type Server struct {
	cfg          config.ServerConfig
	opts         Options
	errorAdapter *derrors.HTTPErrorAdapter

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener

	renderHandlers *handlers.RenderHandlers
	healthHandlers *handlers.HealthHandlers

	mchain func(http.Handler) http.Handler
}

// New builds a Server. Nothing is bound until Start.
func New(cfg config.ServerConfig, svc handlers.RenderService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: derrors.NewHTTPErrorAdapter(opts.Logger),
	}
	s.renderHandlers = handlers.NewRenderHandlers(svc, cfg.MaxBodyBytes, s.errorAdapter)
	s.healthHandlers = handlers.NewHealthHandlers(time.Now(), s.errorAdapter)
	s.mchain = smw.Chain(opts.Logger, s.errorAdapter, opts.Recorder)
	return s
}

// Handler returns the routed and wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/render", s.renderHandlers.HandleRender)
	mux.HandleFunc("/health", s.healthHandlers.HandleHealthCheck)
	if s.opts.MetricsHandler != nil {
		mux.Handle(s.cfg.MetricsPath, s.opts.MetricsHandler)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.errorAdapter.WriteErrorResponse(w, r, derrors.NotFoundError("no such endpoint").
			WithContext("path", r.URL.Path).
			Build())
	})
	return s.mchain(mux)
}

// Start binds the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "http startup failed").
			WithContext("addr", s.cfg.Addr).
			Build()
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.mu.Lock()
	s.ln, s.srv = ln, srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.opts.Logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
	s.opts.Logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.opts.Logger.Info("HTTP server stopped")
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}
