package handlers

import (
	"net/http"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// BadgeHandler serves badge listings.
type BadgeHandler struct {
	store store.Store
}

// NewBadgeHandler creates a new BadgeHandler.
func NewBadgeHandler(s store.Store) *BadgeHandler {
	return &BadgeHandler{store: s}
}

// List handles GET /api/v2/badges.
func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	badges, err := h.store.ListBadges(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, badges)
}

// UserBadges handles GET /api/v2/users/{id}/badges.
func (h *BadgeHandler) UserBadges(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	badges, err := h.store.GetUserBadges(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, badges)
}
