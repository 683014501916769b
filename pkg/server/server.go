// Package server exposes the PDV submission handler and aggregation
// reporter over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/adrestia/pdv/pkg/report"
	"github.com/adrestia/pdv/pkg/store"
	"github.com/adrestia/pdv/pkg/submit"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Server represents the PDV HTTP service
type Server struct {
	store     store.Store
	submitter *submit.Handler
	reporter  *report.Reporter
	version   string
	addr      string
	limiter   *rate.Limiter
	logger    *logrus.Logger
	http      *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithRateLimit caps the request rate across all clients. A limit of 0 or
// less leaves requests unlimited.
func WithRateLimit(limit float64, burst int) Option {
	return func(s *Server) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithSubmitter replaces the default submission handler.
func WithSubmitter(h *submit.Handler) Option {
	return func(s *Server) {
		s.submitter = h
	}
}

// NewServer wires a submission handler and a reporter around st.
func NewServer(st store.Store, version string, logger *logrus.Logger, opts ...Option) *Server {
	s := &Server{
		store:   st,
		version: version,
		addr:    "127.0.0.1:8999",
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.submitter == nil {
		s.submitter = submit.New(st, logger)
	}
	s.reporter = report.New(st)

	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Infof("Starting PDV server on %s (version %s)...", s.addr, s.version)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down PDV server...")
	return s.http.Shutdown(ctx)
}
