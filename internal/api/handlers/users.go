package handlers

import (
	"net/http"
	"time"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// UserHandler serves public user profiles and self-service profile edits.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// List handles GET /api/v2/users. Paged prefix search on username.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := paging(r)

	users, err := h.store.SearchUsers(r.Context(), r.URL.Query().Get("query"), page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, users)
}

// Get handles GET /api/v2/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	if !h.visibleTo(r, user) {
		response.Err(w, models.ErrUserNotFound)
		return
	}
	response.Data(w, http.StatusOK, user)
}

// Stats handles GET /api/v2/users/{id}/stats. With a mode query parameter
// it returns the single row; without, all four modes for the playstyle.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}
	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	if !h.visibleTo(r, user) {
		response.Err(w, models.ErrUserNotFound)
		return
	}

	style, err := queryStyle(r)
	if err != nil {
		response.Err(w, err)
		return
	}

	if r.URL.Query().Get("mode") != "" {
		mode, err := queryMode(r)
		if err != nil {
			response.Err(w, err)
			return
		}
		stats, err := h.store.GetUserStats(r.Context(), id, style, mode)
		if err != nil {
			response.Err(w, err)
			return
		}
		response.Data(w, http.StatusOK, stats)
		return
	}

	stats, err := h.store.GetAllUserStats(r.Context(), id, style)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, stats)
}

// UpdateMeRequest is the request body for PATCH /api/v2/users/me.
type UpdateMeRequest struct {
	Userpage      *string          `json:"userpage,omitempty"`
	FavouriteMode *models.GameMode `json:"favourite_mode,omitempty"`
	Country       *string          `json:"country,omitempty"`
}

// UpdateMe handles PATCH /api/v2/users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req UpdateMeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.store.GetUser(r.Context(), session.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}

	if req.Userpage != nil {
		if len(*req.Userpage) > 65536 {
			response.Err(w, response.New(http.StatusBadRequest, "users", "userpage_too_long"))
			return
		}
		user.Userpage = *req.Userpage
	}
	if req.FavouriteMode != nil {
		if !req.FavouriteMode.IsValid() {
			response.Err(w, errInvalidParam)
			return
		}
		user.FavouriteMode = *req.FavouriteMode
	}
	if req.Country != nil {
		if len(*req.Country) != 2 {
			response.Err(w, response.New(http.StatusBadRequest, "users", "invalid_country"))
			return
		}
		user.Country = *req.Country
	}

	if err := h.store.UpdateUserProfile(r.Context(), user); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, user)
}

// History handles GET /api/v2/users/{id}/history. Returns pp/rank
// snapshots for profile graphs, newest first, capped by the days query
// parameter (default 90).
func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
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

	days := queryInt(r, "days", 90)
	if days < 1 || days > 365 {
		response.Err(w, errInvalidParam)
		return
	}
	since := time.Now().AddDate(0, 0, -days)

	entries, err := h.store.GetUserHistory(r.Context(), id, style, mode, since)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, entries)
}

// visibleTo reports whether the profile may be shown to the requester.
// Hidden profiles stay visible to their owner and to user managers.
func (h *UserHandler) visibleTo(r *http.Request, user *models.User) bool {
	if user.Privileges.Has(privileges.UserPublic) {
		return true
	}
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return false
	}
	return session.UserID == user.ID || session.Privileges.Has(privileges.AdminManageUsers)
}
