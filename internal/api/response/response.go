// Package response implements the API response envelope and the service
// error taxonomy.
//
// Every endpoint answers with the same shape:
//
//	{"status": 200, "data": {...}}
//	{"status": 404, "error": "users.not_found"}
//
// Error codes are "<service>.<slug>" so clients can match on them without
// parsing prose.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/pkg/models"
)

// Envelope is the wire shape shared by every endpoint.
type Envelope struct {
	Status int    `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Error is a service error carrying its HTTP status and wire code.
type Error struct {
	StatusCode int
	Service    string
	Slug       string
}

// New creates a service error.
func New(status int, service, slug string) *Error {
	return &Error{StatusCode: status, Service: service, Slug: slug}
}

// Code returns the wire representation, "<service>.<slug>".
func (e *Error) Code() string {
	return e.Service + "." + e.Slug
}

func (e *Error) Error() string {
	return e.Code()
}

// Shared service errors.
var (
	ErrInternal     = New(http.StatusInternalServerError, "global", "internal")
	ErrRateLimited  = New(http.StatusTooManyRequests, "global", "rate_limited")
	ErrUnauthorized = New(http.StatusUnauthorized, "auth", "unauthorized")
	ErrTokenExpired = New(http.StatusUnauthorized, "auth", "token_expired")
	ErrForbidden    = New(http.StatusForbidden, "auth", "forbidden")
)

// Data writes a success envelope.
func Data(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, Envelope{Status: status, Data: payload})
}

// Err writes an error envelope. Unknown errors never leak details; they
// are logged and rendered as global.internal.
func Err(w http.ResponseWriter, err error) {
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		if mapped := fromDomain(err); mapped != nil {
			svcErr = mapped
		} else {
			logger.Error("Unhandled API error", "error", err)
			svcErr = ErrInternal
		}
	}
	writeJSON(w, svcErr.StatusCode, Envelope{Status: svcErr.StatusCode, Error: svcErr.Code()})
}

// fromDomain maps the models sentinel errors onto the wire taxonomy.
func fromDomain(err error) *Error {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		return New(http.StatusNotFound, "users", "not_found")
	case errors.Is(err, models.ErrDuplicateUser):
		return New(http.StatusConflict, "users", "already_exists")
	case errors.Is(err, models.ErrStatsNotFound):
		return New(http.StatusNotFound, "users", "stats_not_found")

	case errors.Is(err, models.ErrInvalidCredentials):
		return New(http.StatusUnauthorized, "auth", "invalid_credentials")
	case errors.Is(err, models.ErrSessionExpired):
		return ErrTokenExpired
	case errors.Is(err, models.ErrSessionNotFound):
		return ErrUnauthorized
	case errors.Is(err, models.ErrUserBanned):
		return New(http.StatusForbidden, "auth", "banned")

	case errors.Is(err, models.ErrScoreNotFound):
		return New(http.StatusNotFound, "scores", "not_found")
	case errors.Is(err, models.ErrBeatmapNotFound):
		return New(http.StatusNotFound, "beatmaps", "not_found")

	case errors.Is(err, models.ErrClanNotFound):
		return New(http.StatusNotFound, "clans", "not_found")
	case errors.Is(err, models.ErrDuplicateClan):
		return New(http.StatusConflict, "clans", "tag_taken")
	case errors.Is(err, models.ErrClanMemberLimit):
		return New(http.StatusForbidden, "clans", "member_limit")
	case errors.Is(err, models.ErrAlreadyInClan):
		return New(http.StatusConflict, "clans", "already_in_clan")
	case errors.Is(err, models.ErrNotClanMember):
		return New(http.StatusNotFound, "clans", "not_member")
	case errors.Is(err, models.ErrClanOwnerCantLeave):
		return New(http.StatusBadRequest, "clans", "owner_cannot_leave")

	case errors.Is(err, models.ErrFriendshipExists):
		return New(http.StatusConflict, "friends", "already_exists")
	case errors.Is(err, models.ErrFriendshipNotFound):
		return New(http.StatusNotFound, "friends", "not_found")
	case errors.Is(err, models.ErrSelfFriendship):
		return New(http.StatusBadRequest, "friends", "self_friendship")
	case errors.Is(err, models.ErrCommentNotFound):
		return New(http.StatusNotFound, "comments", "not_found")

	case errors.Is(err, models.ErrBadgeNotFound):
		return New(http.StatusNotFound, "badges", "not_found")
	case errors.Is(err, models.ErrAchievementNotFound):
		return New(http.StatusNotFound, "achievements", "not_found")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
