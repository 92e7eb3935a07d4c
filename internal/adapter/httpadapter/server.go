// Package httpadapter exposes the engine's operations over a thin JSON
// HTTP surface plus health, readiness, and metrics endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	"github.com/couchcryptid/weather-prediction-service/internal/forecast"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the adapter-side view of the prediction engine.
type Engine interface {
	Predict(ctx context.Context, loc domain.Location, days int) ([]domain.Forecast, error)
	Warnings(ctx context.Context, loc domain.Location) ([]domain.Warning, error)
	AccuracyMetrics(days int) []domain.AccuracyMetric
	TriggerRetrain(loc domain.Location, reason string) bool
	ModelInfo() (forecast.Info, bool)
	Ready() bool
}

// Server exposes the engine over HTTP.
type Server struct {
	httpServer *http.Server
	engine     Engine
	logger     *slog.Logger
}

// NewServer creates an HTTP server with health, metrics, and forecast
// routes.
func NewServer(addr string, engine Engine, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/warnings", s.handleWarnings)
	mux.HandleFunc("GET /v1/accuracy", s.handleAccuracy)
	mux.HandleFunc("POST /v1/retrain", s.handleRetrain)
	mux.HandleFunc("GET /v1/model", s.handleModel)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.engine.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no trained model available",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	days := parseIntParam(r, "days", 0)

	forecasts, err := s.engine.Predict(r.Context(), loc, days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLocation) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if errors.Is(err, domain.ErrInsufficientData) {
			// No history at all, not even for a baseline.
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("forecast request failed", "city", loc.City, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("forecast unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forecasts": forecasts})
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	warnings, err := s.engine.Warnings(r.Context(), loc)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLocation) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if errors.Is(err, domain.ErrInsufficientData) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("warnings request failed", "city", loc.City, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("warnings unavailable"))
		return
	}
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	days := parseIntParam(r, "days", 90)
	metrics := s.engine.AccuracyMetrics(days)
	if metrics == nil {
		metrics = []domain.AccuracyMetric{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !loc.Valid() {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidLocation)
		return
	}

	started := s.engine.TriggerRetrain(loc, "manual")
	status := "started"
	if !started {
		status = "already in progress"
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": status})
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	info, ok := s.engine.ModelInfo()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"trained": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trained": true, "model": info})
}

// parseLocation reads lat/lon/city/country query parameters. Coordinate
// range and city presence are validated by the engine.
func parseLocation(r *http.Request) (domain.Location, error) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return domain.Location{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return domain.Location{}, errors.New("lon must be a number")
	}

	return domain.Location{
		Latitude:  lat,
		Longitude: lon,
		City:      q.Get("city"),
		Country:   q.Get("country"),
	}, nil
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
