// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// VenuesHandler routes everything under /venues/.
type VenuesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewVenuesHandler creates a new venues handler.
func NewVenuesHandler(deps Dependencies, maxLimit int) *VenuesHandler {
	return &VenuesHandler{deps: deps, maxLimit: maxLimit}
}

// HandleVenues dispatches venue-scoped routes:
//
//	GET  /venues/{id}/leaderboard
//	POST /venues/{id}/leaderboard:recompute
//	GET  /venues/{id}/players/{playerId}/suggestions?limit=N&outcome=1
func (h *VenuesHandler) HandleVenues(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/venues/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	venueID := parts[0]

	switch {
	case len(parts) == 2 && parts[1] == "leaderboard":
		h.handleLeaderboard(w, r, venueID)
	case len(parts) == 2 && parts[1] == "leaderboard:recompute":
		h.handleRecompute(w, r, venueID)
	case len(parts) == 4 && parts[1] == "players" && parts[3] == "suggestions" && parts[2] != "":
		h.handleSuggestions(w, r, venueID, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not_found", nil)
	}
}

// handleLeaderboard handles GET /venues/{id}/leaderboard.
func (h *VenuesHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request, venueID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	lb, err := h.deps.Leaderboard(r.Context(), venueID, false)
	if err != nil {
		h.writeLeaderboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// handleRecompute handles POST /venues/{id}/leaderboard:recompute.
func (h *VenuesHandler) handleRecompute(w http.ResponseWriter, r *http.Request, venueID string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	lb, err := h.deps.Leaderboard(r.Context(), venueID, true)
	if err != nil {
		h.writeLeaderboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// handleSuggestions handles GET /venues/{id}/players/{playerId}/suggestions.
func (h *VenuesHandler) handleSuggestions(w http.ResponseWriter, r *http.Request, venueID, playerID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// limit is clamped, never rejected: absent or malformed means default,
	// oversized means the configured cap.
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}
	withOutcome := r.URL.Query().Get("outcome") == "1" || r.URL.Query().Get("outcome") == "true"

	sugg, err := h.deps.Suggestions(r.Context(), venueID, playerID, limit, withOutcome)
	if err != nil {
		h.writeLeaderboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sugg)
}

func (h *VenuesHandler) writeLeaderboardError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case isUpstreamUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
