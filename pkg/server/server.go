// Package server exposes a finished container over a read-only HTTP API.
//
// Routes, all returning JSON unless noted:
//
//	GET /healthz
//	GET /metrics                                  Prometheus text format
//	GET /api/v1/scopes
//	GET /api/v1/scopes/{scope}/versions[?own=true]
//	GET /api/v1/scopes/{scope}/managed[?own=true]
//	GET /api/v1/scopes/{scope}/properties
//	GET /api/v1/scopes/{scope}/boms
//	GET /api/v1/scopes/{scope}/lookup/{group}/{name}
//	GET /api/v1/scopes/{scope}/history/{group}/{name}
//	GET /api/v1/scopes/{scope}/resolve/{group}/{name}[?version=v&direct=true]
//	GET /api/v1/graph                             Graphviz DOT
//
// The scope "global" addresses the Global scope. Any other scope must be a
// configuration of the project given with [WithProject], or, without one,
// a scope the container holds entries or imports for. Unknown scopes get a
// 404 with code UNKNOWN_SCOPE.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
	"github.com/Alen-lv/dependency-management-plugin/pkg/resolution"
)

const (
	// RequestIDHeader carries the per-request ID in responses.
	RequestIDHeader = "X-Request-ID"

	shutdownTimeout = 5 * time.Second
)

// Server serves queries against one container. The container must not be
// mutated while the server runs.
type Server struct {
	container *management.Container
	project   *project.Project
	resolver  *resolution.Resolver
	logger    *log.Logger
	gatherer  prometheus.Gatherer
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the source for /metrics. The default is
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithProject validates scope path segments against the project's
// configurations.
func WithProject(p *project.Project) Option {
	return func(s *Server) { s.project = p }
}

// New returns a server over c.
func New(c *management.Container, opts ...Option) *Server {
	s := &Server{
		container: c,
		resolver:  resolution.New(c),
		logger:    log.Default(),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "container": s.container.ID()})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scopes", s.listScopes)
		r.Get("/graph", s.graph)
		r.Route("/scopes/{scope}", func(r chi.Router) {
			r.Use(s.scopeContext)
			r.Get("/versions", s.versions)
			r.Get("/managed", s.managed)
			r.Get("/properties", s.properties)
			r.Get("/boms", s.boms)
			r.Get("/lookup/{group}/{name}", s.lookup)
			r.Get("/history/{group}/{name}", s.history)
			r.Get("/resolve/{group}/{name}", s.resolve)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "container", s.container.ID())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", w.Header().Get(RequestIDHeader))
	})
}
