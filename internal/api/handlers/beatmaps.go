package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// BeatmapHandler serves cached beatmap metadata and per-map leaderboards.
type BeatmapHandler struct {
	store store.Store
}

// NewBeatmapHandler creates a new BeatmapHandler.
func NewBeatmapHandler(s store.Store) *BeatmapHandler {
	return &BeatmapHandler{store: s}
}

// Get handles GET /api/v2/beatmaps/{id}.
func (h *BeatmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	beatmap, err := h.store.GetBeatmap(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, beatmap)
}

// GetByMD5 handles GET /api/v2/beatmaps/md5/{md5}.
func (h *BeatmapHandler) GetByMD5(w http.ResponseWriter, r *http.Request) {
	md5 := chi.URLParam(r, "md5")
	if len(md5) != 32 {
		response.Err(w, errInvalidParam)
		return
	}

	beatmap, err := h.store.GetBeatmapByMD5(r.Context(), md5)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, beatmap)
}

// Scores handles GET /api/v2/beatmaps/{id}/scores. The per-map
// leaderboard: best plays, one per user, filtered by mode and playstyle.
func (h *BeatmapHandler) Scores(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}
	mode, style, err := queryModeStyle(r)
	if err != nil {
		response.Err(w, err)
		return
	}
	limit := queryInt(r, "limit", 50)

	beatmap, err := h.store.GetBeatmap(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}

	scores, err := h.store.GetBeatmapScores(r.Context(), beatmap.MD5, style, mode, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, scoreResponses(scores))
}
