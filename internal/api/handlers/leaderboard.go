package handlers

import (
	"net/http"
	"strings"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// LeaderboardHandler serves the global and clan rankings.
type LeaderboardHandler struct {
	store store.Store
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(s store.Store) *LeaderboardHandler {
	return &LeaderboardHandler{store: s}
}

// Global handles GET /api/v2/leaderboard. Ranked by pp, optionally
// filtered to one country.
func (h *LeaderboardHandler) Global(w http.ResponseWriter, r *http.Request) {
	mode, style, err := queryModeStyle(r)
	if err != nil {
		response.Err(w, err)
		return
	}
	page, limit := paging(r)

	country := strings.ToUpper(r.URL.Query().Get("country"))
	if country != "" && len(country) != 2 {
		response.Err(w, errInvalidParam)
		return
	}

	entries, err := h.store.GetLeaderboard(r.Context(), style, mode, country, page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, entries)
}

// Clans handles GET /api/v2/clans/leaderboard. Clans ranked by weighted
// pp over their pp-sorted members.
func (h *LeaderboardHandler) Clans(w http.ResponseWriter, r *http.Request) {
	mode, style, err := queryModeStyle(r)
	if err != nil {
		response.Err(w, err)
		return
	}
	page, limit := paging(r)

	entries, err := h.store.GetClanLeaderboard(r.Context(), style, mode, page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, entries)
}
