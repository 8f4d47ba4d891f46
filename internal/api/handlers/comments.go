package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

const maxCommentLength = 500

// CommentHandler serves profile comments.
type CommentHandler struct {
	store store.Store
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(s store.Store) *CommentHandler {
	return &CommentHandler{store: s}
}

// List handles GET /api/v2/users/{id}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}
	page, limit := paging(r)

	comments, err := h.store.ListProfileComments(r.Context(), id, page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, comments)
}

// CreateCommentRequest is the request body for POST /api/v2/users/{id}/comments.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// Create handles POST /api/v2/users/{id}/comments. Silenced users cannot
// post.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	profileID, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	var req CreateCommentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" || len(req.Body) > maxCommentLength {
		response.Err(w, response.New(http.StatusBadRequest, "comments", "invalid_body"))
		return
	}

	author, err := h.store.GetUser(r.Context(), session.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}
	if author.IsSilenced(time.Now()) {
		response.Err(w, response.New(http.StatusForbidden, "comments", "silenced"))
		return
	}
	if _, err := h.store.GetUser(r.Context(), profileID); err != nil {
		response.Err(w, err)
		return
	}

	comment := &models.ProfileComment{
		AuthorID:  session.UserID,
		ProfileID: profileID,
		Body:      req.Body,
	}
	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusCreated, comment)
}

// Delete handles DELETE /api/v2/comments/{id}. Allowed for the author,
// the profile owner, and chat moderators.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	comment, err := h.store.GetComment(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}

	allowed := session.UserID == comment.AuthorID ||
		session.UserID == comment.ProfileID ||
		session.Privileges.Has(privileges.AdminChatMod)
	if !allowed {
		response.Err(w, response.ErrForbidden)
		return
	}

	if err := h.store.DeleteComment(r.Context(), id); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, nil)
}
