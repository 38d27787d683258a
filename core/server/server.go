package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
)

// Server runs an http.Server until its context is canceled, then shuts
// down gracefully within the configured timeout.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	tlsConfig *tls.Config

	mu      sync.Mutex
	running bool
	addr    net.Addr
	ready   chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTLS serves HTTPS with the given configuration instead of the
// certificate files in Config.
func WithTLS(cfg *tls.Config) Option {
	return func(s *Server) {
		s.tlsConfig = cfg
	}
}

// New creates a server from cfg. Zero timeouts take their defaults.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	s := &Server{
		cfg:    cfg.withDefaults(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tlsConfig == nil && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		tlsConfig, err := LoadTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, err
		}
		s.tlsConfig = tlsConfig
	}

	return s, nil
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or "" before the server is listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Run serves h until ctx is canceled. A graceful shutdown returns nil.
func (s *Server) Run(ctx context.Context, h http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w on %s: %w", ErrListen, s.cfg.Addr, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	srv := &http.Server{
		Handler:        h,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
		TLSConfig:      s.tlsConfig,
		BaseContext:    func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	close(s.ready)

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting server", "addr", ln.Addr().String(), "tls", s.tlsConfig != nil)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server gracefully", "timeout", s.cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", "error", err)
		return fmt.Errorf("%w: %w", ErrHTTPShutdown, err)
	}
	<-errCh

	s.logger.Info("server shutdown complete")
	return nil
}
