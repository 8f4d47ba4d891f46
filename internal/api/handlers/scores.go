package handlers

import (
	"context"
	"net/http"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// ScoreHandler serves individual plays and per-user score listings.
type ScoreHandler struct {
	store store.Store
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(s store.Store) *ScoreHandler {
	return &ScoreHandler{store: s}
}

// ScoreResponse decorates a score with its letter grade.
type ScoreResponse struct {
	*models.Score
	Grade string `json:"grade"`
}

func scoreResponses(scores []*models.Score) []ScoreResponse {
	out := make([]ScoreResponse, len(scores))
	for i, score := range scores {
		out[i] = ScoreResponse{Score: score, Grade: score.Rank()}
	}
	return out
}

// Get handles GET /api/v2/scores/{id}.
func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	score, err := h.store.GetScore(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, ScoreResponse{Score: score, Grade: score.Rank()})
}

// Best handles GET /api/v2/users/{id}/scores/best.
func (h *ScoreHandler) Best(w http.ResponseWriter, r *http.Request) {
	h.userScores(w, r, h.store.GetUserBestScores)
}

// Recent handles GET /api/v2/users/{id}/scores/recent.
func (h *ScoreHandler) Recent(w http.ResponseWriter, r *http.Request) {
	h.userScores(w, r, h.store.GetUserRecentScores)
}

// Firsts handles GET /api/v2/users/{id}/scores/firsts.
func (h *ScoreHandler) Firsts(w http.ResponseWriter, r *http.Request) {
	h.userScores(w, r, h.store.GetUserFirstPlaces)
}

// userScores factors the shared shape of the three per-user listings.
func (h *ScoreHandler) userScores(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error),
) {
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
	page, limit := paging(r)

	scores, err := fetch(r.Context(), id, style, mode, page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, scoreResponses(scores))
}
