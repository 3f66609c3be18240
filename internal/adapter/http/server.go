package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the parameter lookup API plus health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	table      *catalog.Table
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server routing lookups against the given table.
// All /v1 routes share the supplied rate limiter.
func NewServer(addr string, table *catalog.Table, limiter *rate.Limiter, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		table:   table,
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/parameters", s.rateLimited(s.handleListParameters))
	mux.HandleFunc("GET /v1/parameters/code", s.rateLimited(s.handleLookupByCode))
	mux.HandleFunc("GET /v1/parameters/{abbrev}", s.rateLimited(s.handleLookupByAbbrev))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// rateLimited rejects requests over the configured rate with 429.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.RateLimited.Inc()
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleListParameters(w http.ResponseWriter, _ *http.Request) {
	records := s.table.Records()
	s.metrics.LookupRequests.WithLabelValues("all", "hit").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(records),
		"parameters": records,
	})
}

func (s *Server) handleLookupByAbbrev(w http.ResponseWriter, r *http.Request) {
	abbrev := r.PathValue("abbrev")
	records := s.table.LookupByAbbrev(abbrev)
	if len(records) == 0 {
		s.metrics.LookupRequests.WithLabelValues("abbrev", "miss").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown variable: " + abbrev})
		return
	}
	s.metrics.LookupRequests.WithLabelValues("abbrev", "hit").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(records),
		"parameters": records,
	})
}

func (s *Server) handleLookupByCode(w http.ResponseWriter, r *http.Request) {
	key, err := parseKeyQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rec, ok := s.table.LookupByCode(key.Discipline, key.Category, key.Parameter, key.LevelValue)
	if !ok {
		s.metrics.LookupRequests.WithLabelValues("code", "miss").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no parameter matches the given codes"})
		return
	}
	s.metrics.LookupRequests.WithLabelValues("code", "hit").Inc()
	writeJSON(w, http.StatusOK, rec)
}

// parseKeyQuery reads the four code query parameters. All are required
// and must be non-negative integers.
func parseKeyQuery(r *http.Request) (catalog.Key, error) {
	var key catalog.Key
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"discipline", &key.Discipline},
		{"category", &key.Category},
		{"number", &key.Parameter},
		{"level", &key.LevelValue},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			return catalog.Key{}, &queryError{param: p.name, reason: "missing"}
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return catalog.Key{}, &queryError{param: p.name, reason: "must be a non-negative integer"}
		}
		*p.dst = v
	}
	return key, nil
}

type queryError struct {
	param  string
	reason string
}

func (e *queryError) Error() string {
	return "query parameter " + e.param + ": " + e.reason
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
