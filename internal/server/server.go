// Package server implements the licensegate HTTP API.
//
// Endpoints:
//
//	POST /api/check     run a compliance check (file upload or repo_url)
//	GET  /api/policies  list configured policy names
//	GET  /api/reports   list recent check reports (when history is enabled)
//	GET  /healthz       liveness probe
//
// A check request is either a multipart upload with a "dependencyFile"
// field, or a form/JSON body with a "repo_url" field. Both accept an
// optional "policy" name. The response is a JSON array of
// {dependency, license, status} objects.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/licensegate/pkg/checker"
	"github.com/matzehuels/licensegate/pkg/policy"
	"github.com/matzehuels/licensegate/pkg/report"
)

// Server wires the checker into an HTTP API.
type Server struct {
	checker  *checker.Checker
	policies *policy.Set
	reports  report.Store // nil disables history
	logger   *log.Logger
}

// New creates a Server. The reports store may be nil, which disables the
// history endpoint.
func New(c *checker.Checker, policies *policy.Set, reports report.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		checker:  c,
		policies: policies,
		reports:  reports,
		logger:   logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/policies", s.handlePolicies)
		r.Get("/reports", s.handleReports)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully with a 10s drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
