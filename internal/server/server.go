// Package server exposes graph generation over HTTP.
//
// Routes:
//
//	GET  /healthz                     liveness and build information
//	POST /v1/graphs                   generate a graph from JSON options
//	GET  /v1/graphs                   list archived runs (?limit=N)
//	GET  /v1/graphs/{id}              fetch a run (?format=json|dot|svg&detailed=true)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphgen/pkg/buildinfo"
	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/observability"
	"github.com/matzehuels/graphgen/pkg/pipeline"
	"github.com/matzehuels/graphgen/pkg/render"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API on top of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server. The runner's cache should be shared (Redis) when
// several replicas serve the same clients.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/graphs", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
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
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// runResponse describes a run. Graph holds the JSON graph document.
type runResponse struct {
	RunID    string           `json:"run_id"`
	Params   generator.Params `json:"params"`
	Stats    generator.Stats  `json:"stats"`
	Warning  string           `json:"warning,omitempty"`
	CacheHit bool             `json:"cache_hit"`
	Graph    json.RawMessage  `json:"graph"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := opts.ValidateLimits(); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = withJSON(opts.Formats)
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.CacheHit {
		status = http.StatusOK
	}
	writeJSON(w, status, runResponse{
		RunID:    res.RunID,
		Params:   res.Params,
		Stats:    res.Stats,
		Warning:  res.Warning,
		CacheHit: res.CacheHit,
		Graph:    res.Artifacts[string(render.FormatJSON)],
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	format := render.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	res, err := s.runner.Load(r.Context(), runID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), runID, res.Graph, pipeline.Options{
		Formats:  []string{string(format)},
		Detailed: detailed,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if res.Warning != "" {
		w.Header().Set("X-Graphgen-Warning", res.Warning)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[string(format)])
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid limit %q", q))
			return
		}
		limit = n
	}
	runs, err := s.runner.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// =============================================================================
// Helpers
// =============================================================================

// withJSON ensures the JSON document is rendered for the response body.
func withJSON(formats []string) []string {
	for _, f := range formats {
		if f == string(render.FormatJSON) {
			return formats
		}
	}
	return append([]string{string(render.FormatJSON)}, formats...)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidParams, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidRunID:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.Is(err, context.Canceled) {
		return 499 // client closed request
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: string(code), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests emits HTTP hooks and a log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
