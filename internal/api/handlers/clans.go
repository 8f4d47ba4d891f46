package handlers

import (
	"net/http"
	"strings"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// ClanHandler serves clan CRUD and membership.
type ClanHandler struct {
	store store.Store
}

// NewClanHandler creates a new ClanHandler.
func NewClanHandler(s store.Store) *ClanHandler {
	return &ClanHandler{store: s}
}

// List handles GET /api/v2/clans.
func (h *ClanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := paging(r)

	clans, err := h.store.ListClans(r.Context(), page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, clans)
}

// CreateClanRequest is the request body for POST /api/v2/clans.
type CreateClanRequest struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Create handles POST /api/v2/clans. The caller becomes the owner.
func (h *ClanHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req CreateClanRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Tag = strings.TrimSpace(req.Tag)
	if len(req.Name) < 2 || len(req.Name) > 32 {
		response.Err(w, response.New(http.StatusBadRequest, "clans", "invalid_name"))
		return
	}
	if len(req.Tag) < 1 || len(req.Tag) > 8 || strings.Contains(req.Tag, " ") {
		response.Err(w, response.New(http.StatusBadRequest, "clans", "invalid_tag"))
		return
	}

	clan := &models.Clan{
		Name:        req.Name,
		Tag:         req.Tag,
		Description: req.Description,
		Icon:        req.Icon,
		OwnerID:     session.UserID,
	}
	if err := h.store.CreateClan(r.Context(), clan); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusCreated, clan)
}

// Get handles GET /api/v2/clans/{id}.
func (h *ClanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	clan, err := h.store.GetClan(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, clan)
}

// UpdateClanRequest is the request body for PATCH /api/v2/clans/{id}.
type UpdateClanRequest struct {
	Name        *string `json:"name,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// Update handles PATCH /api/v2/clans/{id}. Owner or user managers only.
func (h *ClanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	clan, err := h.store.GetClan(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	if !h.canManage(r, clan) {
		response.Err(w, response.ErrForbidden)
		return
	}

	var req UpdateClanRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 || len(name) > 32 {
			response.Err(w, response.New(http.StatusBadRequest, "clans", "invalid_name"))
			return
		}
		clan.Name = name
	}
	if req.Tag != nil {
		tag := strings.TrimSpace(*req.Tag)
		if len(tag) < 1 || len(tag) > 8 || strings.Contains(tag, " ") {
			response.Err(w, response.New(http.StatusBadRequest, "clans", "invalid_tag"))
			return
		}
		clan.Tag = tag
	}
	if req.Description != nil {
		clan.Description = *req.Description
	}
	if req.Icon != nil {
		clan.Icon = *req.Icon
	}

	if err := h.store.UpdateClan(r.Context(), clan); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, clan)
}

// Delete handles DELETE /api/v2/clans/{id}. Disbands the clan.
func (h *ClanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	clan, err := h.store.GetClan(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	if !h.canManage(r, clan) {
		response.Err(w, response.ErrForbidden)
		return
	}

	if err := h.store.DeleteClan(r.Context(), id); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, nil)
}

// ClanMemberResponse pairs a membership row with the member's profile.
type ClanMemberResponse struct {
	User   *models.User       `json:"user"`
	Member *models.ClanMember `json:"member"`
}

// Members handles GET /api/v2/clans/{id}/members.
func (h *ClanHandler) Members(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}
	if _, err := h.store.GetClan(r.Context(), id); err != nil {
		response.Err(w, err)
		return
	}

	members, err := h.store.GetClanMembers(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}

	out := make([]ClanMemberResponse, 0, len(members))
	for _, member := range members {
		user, err := h.store.GetUser(r.Context(), member.UserID)
		if err != nil {
			response.Err(w, err)
			return
		}
		out = append(out, ClanMemberResponse{User: user, Member: member})
	}
	response.Data(w, http.StatusOK, out)
}

// Join handles POST /api/v2/clans/{id}/join.
func (h *ClanHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.AddClanMember(r.Context(), id, session.UserID, models.ClanPermMember); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, nil)
}

// Leave handles POST /api/v2/clans/{id}/leave. Owners must disband
// instead.
func (h *ClanHandler) Leave(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.RemoveClanMember(r.Context(), id, session.UserID); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, nil)
}

func (h *ClanHandler) canManage(r *http.Request, clan *models.Clan) bool {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return false
	}
	return session.UserID == clan.OwnerID || session.Privileges.Has(privileges.AdminManageUsers)
}
