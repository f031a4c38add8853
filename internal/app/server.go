package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/samvad-hq/samvad-news-aggregator/internal/api"
	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/internal/metrics"
)

const (
	serverReadTimeout     = 10 * time.Second
	serverWriteTimeout    = 45 * time.Second
	serverIdleTimeout     = 60 * time.Second
	serverShutdownTimeout = 15 * time.Second
)

// Server is the HTTP API runtime.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds the API server from config.
func NewServer(cfg *config.Config, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder()
	}

	svc, _, err := NewAggregator(cfg, log, recorder)
	if err != nil {
		return nil, err
	}

	opts := []api.ServerOption{api.WithLogger(log)}
	if recorder != nil {
		opts = append(opts, api.WithMetricsHandler(recorder.Handler()))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewServer(svc, opts...),
			ReadHeaderTimeout: serverReadTimeout,
			ReadTimeout:       serverReadTimeout,
			WriteTimeout:      serverWriteTimeout,
			IdleTimeout:       serverIdleTimeout,
		},
		log: log,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return fmt.Errorf("server is not initialized")
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("http server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.InfoObj("http server shutting down", "reason", ctx.Err().Error())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.InfoObj("http server shutdown complete", "addr", ln.Addr().String())
	return nil
}
