// Package server exposes placement generation over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build version
//	POST /v1/placements           generate a set from JSON options
//	GET  /v1/placements/{seed}    generate a set with default options
//	POST /v1/placements/verify    check a set against the placement rules
//	POST /v1/previews             render a set as SVG
//	GET  /v1/stats                running totals, when Stats is set
//
// Errors are JSON objects {"code": ..., "error": ...} with the status taken
// from [errors.HTTPStatus].
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scenegen/pkg/cache"
	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/observability"
	"github.com/matzehuels/scenegen/pkg/pipeline"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 4 << 20

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API.
type Server struct {
	// Stats, when set, is served at /v1/stats. The caller registers it
	// with the observability package.
	Stats *observability.Counters

	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

// New returns a server generating placements with runner. defaults supplies
// the seed of requests that carry none and the placement options of
// GET /v1/placements/{seed}. Its MaxAttempts caps every request, falling back
// to pipeline.DefaultCLIMaxAttempts when zero.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if defaults.Placement.MaxAttempts == 0 {
		defaults.Placement.MaxAttempts = pipeline.DefaultCLIMaxAttempts
	}
	return &Server{runner: runner, defaults: defaults, logger: logger}
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/placements", s.createPlacement)
		r.Post("/placements/verify", s.verifyPlacement)
		r.Get("/placements/{seed}", s.getPlacement)
		r.Post("/previews", s.createPreview)
		r.Get("/stats", s.stats)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

// observe reports each request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", elapsed)
	})
}

func (s *Server) cacheAndKeyer() (cache.Cache, cache.Keyer) {
	c, k := s.runner.Cache, s.runner.Keyer
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return c, k
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
	Field string      `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Code:  code,
		Error: errors.UserMessage(err),
		Field: errors.FieldOf(err),
	})
}

// decodeJSON reads the request body into v. Strict decoding rejects unknown
// fields; sets are decoded leniently so responses can be posted back as-is.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
