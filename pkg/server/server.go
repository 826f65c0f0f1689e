// Package server exposes stored radars and the layout pipeline over HTTP.
//
// Routes:
//
//	POST   /radars               store a document, 201 {"id": ...}
//	GET    /radars               list stored radars
//	GET    /radars/{id}          the stored document
//	PUT    /radars/{id}          replace the document
//	DELETE /radars/{id}          remove the radar
//	GET    /radars/{id}/layout   layout as JSON
//	GET    /radars/{id}/svg      chart as SVG
//	POST   /layout               layout of an inline document
//	GET    /healthz              liveness
//	GET    /metrics              Prometheus metrics, when configured
//
// Layout and SVG routes accept option overrides as query parameters
// (scale, inner_radius, gap_factor, label_offset, hole_units, title,
// ring_labels, hide_connectors). Errors are returned as {"code", "message"}
// with a status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/polaris/pkg/pipeline"
	"github.com/matzehuels/polaris/pkg/storage"
)

// DefaultMaxBodySize limits request documents.
const DefaultMaxBodySize = 4 << 20

// Server serves the radar API. It is safe for concurrent use.
type Server struct {
	store    storage.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	metrics  http.Handler
	defaults pipeline.Options
	maxBody  int64
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithDefaults sets the options that query parameters override.
func WithDefaults(opts pipeline.Options) Option { return func(s *Server) { s.defaults = opts } }

// WithMaxBodySize limits request bodies to n bytes.
func WithMaxBodySize(n int64) Option { return func(s *Server) { s.maxBody = n } }

// New creates a server over store. A nil runner renders without caching.
func New(store storage.Store, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{store: store, runner: runner, maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Post("/layout", s.handleInlineLayout)

	r.Route("/radars", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Get("/layout", s.handleLayout)
			r.Get("/svg", s.handleSVG)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
