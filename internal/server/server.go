// Package server exposes the fitting pipeline over HTTP.
//
// # Overview
//
// The server wraps a [pipeline.Runner] and a [history.Store] behind a JSON
// API:
//
//	GET    /healthz             liveness probe with build version
//	GET    /api/v1/targets      builtin target catalog
//	POST   /api/v1/fit          run a fit, body is pipeline.Options JSON
//	GET    /api/v1/runs         stored run records, newest first
//	GET    /api/v1/runs/{id}    one stored run record
//	DELETE /api/v1/runs/{id}    remove one record
//	DELETE /api/v1/runs         remove all records
//
// Fit responses carry the run record plus the rendered artifacts. Artifact
// bytes are base64-encoded by the JSON layer, so a PNG artifact arrives as a
// base64 string and an ASCII artifact decodes to plain text.
//
// # Errors
//
// Failures are reported as a JSON document with the structured error code:
//
//	{"error": "unknown target \"ghost\"", "code": "TARGET_NOT_FOUND"}
//
// Validation codes map to 400, missing resources to 404, timeouts to 504.
// A fit that runs out of trials is not a failure: it returns 200 with
// "exhausted": true and the best candidate found.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ckski/Evolution-Tutorials/pkg/history"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
)

const (
	// DefaultAddr is the default listen address for the serve command.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultRequestTimeout bounds a single request. Fits with a large
	// trial budget are cancelled through the request context when it
	// expires.
	DefaultRequestTimeout = 60 * time.Second

	// maxBodyBytes caps the fit request body.
	maxBodyBytes = 1 << 20

	shutdownGrace = 10 * time.Second
)

// Server serves the fitting pipeline over HTTP.
type Server struct {
	runner  *pipeline.Runner
	store   history.Store
	log     *log.Logger
	timeout time.Duration
}

// New creates a Server. A nil runner gets a cacheless default, a nil logger
// falls back to the standard logger. The store may be nil, in which case fit
// results are not persisted and the runs endpoints report an empty history.
func New(runner *pipeline.Runner, store history.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		store:   store,
		log:     logger,
		timeout: DefaultRequestTimeout,
	}
}

// SetRequestTimeout overrides the per-request budget. Zero or negative
// restores the default.
func (s *Server) SetRequestTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	s.timeout = d
}

// Handler builds the routing tree with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/targets", s.handleTargets)
		r.Post("/fit", s.handleFit)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleRunsList)
			r.Delete("/", s.handleRunsClear)
			r.Get("/{id}", s.handleRunsGet)
			r.Delete("/{id}", s.handleRunsDelete)
		})
	})
	return r
}

// ListenAndServe runs the server until the listener fails or ctx is
// cancelled. On cancellation in-flight requests get a grace period before
// the server is torn down, and the context's error is returned so callers
// can tell shutdown from a listener failure.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down", "grace", shutdownGrace)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
