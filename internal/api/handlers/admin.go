package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// AdminHandler serves the moderation endpoints. Every action writes an
// audit log row.
type AdminHandler struct {
	store    store.Store
	sessions *sessions.Store
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(s store.Store, sess *sessions.Store) *AdminHandler {
	return &AdminHandler{store: s, sessions: sess}
}

// ModerationRequest is the shared request body for ban/restrict/unrestrict.
type ModerationRequest struct {
	Reason string `json:"reason"`
}

// Ban handles POST /api/v2/admin/users/{id}/ban. Clears both the public
// and login bits and drops every live session.
func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "ban", func(user *models.User) {
		user.Privileges = user.Privileges.Ban()
	}, true)
}

// Restrict handles POST /api/v2/admin/users/{id}/restrict. Hides the
// profile but keeps login access.
func (h *AdminHandler) Restrict(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "restrict", func(user *models.User) {
		user.Privileges = user.Privileges.Restrict()
	}, false)
}

// Unrestrict handles POST /api/v2/admin/users/{id}/unrestrict. Restores
// both the public and login bits.
func (h *AdminHandler) Unrestrict(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, "unrestrict", func(user *models.User) {
		user.Privileges = user.Privileges.Unrestrict()
	}, false)
}

func (h *AdminHandler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(*models.User),
	dropSessions bool,
) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 && !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}

	apply(user)
	if err := h.store.UpdateUserPrivileges(r.Context(), user.ID, user.Privileges); err != nil {
		response.Err(w, err)
		return
	}

	if dropSessions {
		if err := h.sessions.DeleteAllForUser(user.ID); err != nil {
			logger.Error("Failed to drop sessions for moderated user", "user_id", user.ID, "error", err)
		}
	}

	h.audit(r, session.UserID, user.ID, action,
		fmt.Sprintf("%s %s: %s", action, user.Username, req.Reason))
	response.Data(w, http.StatusOK, user)
}

// SilenceRequest is the request body for POST /api/v2/admin/users/{id}/silence.
// Seconds <= 0 lifts an active silence.
type SilenceRequest struct {
	Seconds int64  `json:"seconds"`
	Reason  string `json:"reason"`
}

// Silence handles POST /api/v2/admin/users/{id}/silence.
func (h *AdminHandler) Silence(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	var req SilenceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}

	var until *time.Time
	action := "unsilence"
	if req.Seconds > 0 {
		t := time.Now().Add(time.Duration(req.Seconds) * time.Second)
		until = &t
		action = "silence"
	}

	if err := h.store.SetSilence(r.Context(), user.ID, until); err != nil {
		response.Err(w, err)
		return
	}

	h.audit(r, session.UserID, user.ID, action,
		fmt.Sprintf("%s %s for %ds: %s", action, user.Username, req.Seconds, req.Reason))
	response.Data(w, http.StatusOK, nil)
}

// GrantBadge handles POST /api/v2/admin/users/{id}/badges/{badge}.
func (h *AdminHandler) GrantBadge(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	userID, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}
	badgeID, err := urlParamInt64(r, "badge")
	if err != nil {
		response.Err(w, err)
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		response.Err(w, err)
		return
	}
	badge, err := h.store.GetBadge(r.Context(), badgeID)
	if err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.GrantBadge(r.Context(), user.ID, badge.ID); err != nil {
		response.Err(w, err)
		return
	}

	h.audit(r, session.UserID, user.ID, "grant_badge",
		fmt.Sprintf("granted badge %q to %s", badge.Name, user.Username))
	response.Data(w, http.StatusCreated, nil)
}

// RankBeatmapRequest is the request body for POST /api/v2/admin/beatmaps/{id}/rank.
type RankBeatmapRequest struct {
	Status int  `json:"status"`
	Frozen bool `json:"frozen"`
}

// RankBeatmap handles POST /api/v2/admin/beatmaps/{id}/rank. Freezing the
// status protects it from being overwritten on the next metadata refresh.
func (h *AdminHandler) RankBeatmap(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Err(w, err)
		return
	}

	var req RankBeatmapRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Status < models.BeatmapNeedsWork || req.Status > models.BeatmapLoved {
		response.Err(w, errInvalidParam)
		return
	}

	beatmap, err := h.store.GetBeatmap(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.SetBeatmapRankedStatus(r.Context(), beatmap.BeatmapID, req.Status, req.Frozen); err != nil {
		response.Err(w, err)
		return
	}

	h.audit(r, session.UserID, 0, "rank_beatmap",
		fmt.Sprintf("set beatmap %d (%s) ranked status to %d (frozen=%t)",
			beatmap.BeatmapID, beatmap.SongName, req.Status, req.Frozen))
	response.Data(w, http.StatusOK, nil)
}

// Logs handles GET /api/v2/admin/logs.
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	page, limit := paging(r)

	logs, err := h.store.ListAuditLogs(r.Context(), page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, logs)
}

// audit records the action; failures are logged but never fail the
// moderation itself, which has already been applied.
func (h *AdminHandler) audit(r *http.Request, actorID, targetID int64, action, message string) {
	entry := &models.AuditLog{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
		Message:  message,
	}
	if err := h.store.CreateAuditLog(r.Context(), entry); err != nil {
		logger.Error("Failed to write audit log", "action", action, "error", err)
	}
	logger.Info("Moderation action", "action", action, "actor_id", actorID, "target_id", targetID)
}
