package handlers

import (
	"net/http"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// AchievementHandler serves medal listings.
type AchievementHandler struct {
	store store.Store
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(s store.Store) *AchievementHandler {
	return &AchievementHandler{store: s}
}

// List handles GET /api/v2/achievements.
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.store.ListAchievements(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, achievements)
}

// UserAchievements handles GET /api/v2/users/{id}/achievements.
func (h *AchievementHandler) UserAchievements(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	achievements, err := h.store.GetUserAchievements(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, achievements)
}
