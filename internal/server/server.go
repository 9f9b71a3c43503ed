// Package server exposes the event store over a loopback HTTP interface.
//
// The layer owns protocol-shape concerns only: JSON decoding, query-string
// parsing, status-code mapping. Business rules (validation, dedup, ordering)
// live in the store; a store-side validation failure on insert surfaces as a
// 500, which callers depend on.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/roach88/browsetrace/internal/config"
	"github.com/roach88/browsetrace/internal/store"
)

// Server wires the event store to an HTTP listener.
type Server struct {
	store  *store.Store
	cfg    config.Config
	log    *slog.Logger
	reqIDs RequestIDGenerator
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRequestIDs sets the request-id generator. Defaults to UUIDv7.
func WithRequestIDs(g RequestIDGenerator) Option {
	return func(s *Server) { s.reqIDs = g }
}

// New creates a Server over an opened store.
func New(st *store.Store, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		store:  st,
		cfg:    cfg,
		log:    slog.Default(),
		reqIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/events", s.handleEvents)
	return s.requestLog(mux)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully,
// waiting up to the configured grace period for in-flight requests.
// Read/write timeouts bound how long a slow client can hold a connection.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Std(),
		WriteTimeout: s.cfg.WriteTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "grace", s.cfg.ShutdownGrace.Std())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace.Std())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Grace period exhausted; remaining connections are cut.
		return srv.Close()
	}
	return nil
}
