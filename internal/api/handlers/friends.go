package handlers

import (
	"net/http"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// FriendHandler serves the friend list. Friendships are directed edges;
// a relationship is mutual when the reverse edge exists too.
type FriendHandler struct {
	store store.Store
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(s store.Store) *FriendHandler {
	return &FriendHandler{store: s}
}

// FriendResponse is one entry of the friend list.
type FriendResponse struct {
	User   *models.User `json:"user"`
	Mutual bool         `json:"mutual"`
}

// List handles GET /api/v2/friends.
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	friendships, err := h.store.ListFriends(r.Context(), session.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}

	out := make([]FriendResponse, 0, len(friendships))
	for _, f := range friendships {
		user, err := h.store.GetUser(r.Context(), f.FriendID)
		if err != nil {
			response.Err(w, err)
			return
		}
		mutual, err := h.store.IsFriend(r.Context(), f.FriendID, session.UserID)
		if err != nil {
			response.Err(w, err)
			return
		}
		out = append(out, FriendResponse{User: user, Mutual: mutual})
	}
	response.Data(w, http.StatusOK, out)
}

// Add handles POST /api/v2/friends/{id}.
func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}
	if id == session.UserID {
		response.Err(w, models.ErrSelfFriendship)
		return
	}
	if _, err := h.store.GetUser(r.Context(), id); err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.AddFriend(r.Context(), session.UserID, id); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusCreated, nil)
}

// Remove handles DELETE /api/v2/friends/{id}.
func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.RemoveFriend(r.Context(), session.UserID, id); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, nil)
}
