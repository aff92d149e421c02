// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/courtiq/skillrank/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Leaderboard returns the venue's board, recomputing when the cached
	// copy is missing or stale. force skips the cache outright.
	Leaderboard(ctx context.Context, venueID string, force bool) (types.Leaderboard, error)

	// Suggestions returns ranked opponent candidates plus the two bands.
	Suggestions(ctx context.Context, venueID, playerID string, limit int, withOutcome bool) (types.Suggestions, error)

	// Predict returns the outcome distribution for two skills.
	Predict(ctx context.Context, skillA, skillB float64) types.Probabilities
}

// Server wires HTTP routes for the business API.
type Server struct {
	venuesHandler  *VenuesHandler
	predictHandler *PredictHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		venuesHandler:  NewVenuesHandler(deps, maxLimit),
		predictHandler: NewPredictHandler(deps),
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/venues/", MetricsMiddleware(s.venuesHandler.HandleVenues, "venues"))
}

// predictRequest mirrors the POST /predict body.
type predictRequest struct {
	SkillA float64 `json:"skill_a"`
	SkillB float64 `json:"skill_b"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404 without coupling to
// the cache package's sentinel.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// isUpstreamUnavailable maps the all-tiers-failed condition to 503.
func isUpstreamUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "tiers failed")
}
