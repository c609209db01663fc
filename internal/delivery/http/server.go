package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server wraps http.Server with the timeouts this service needs. The write
// timeout must outlast the summary long-poll.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a server listening on addr. longPoll is the longest a
// handler may legitimately hold a request open.
func NewServer(addr string, handler http.Handler, logger *slog.Logger, longPoll time.Duration) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      longPoll + 15*time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, closing connections forcibly if ctx expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("graceful shutdown failed", "err", err)
		if cerr := s.server.Close(); cerr != nil {
			return fmt.Errorf("close: %w", cerr)
		}
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
