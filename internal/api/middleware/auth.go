// Package middleware provides HTTP middleware for the Soumetsu API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/sessions"
)

// Context key type for storing the resolved session
type contextKey string

const (
	sessionContextKey contextKey = "session"
	tokenContextKey   contextKey = "token"
)

// SessionFromContext retrieves the resolved session from the request
// context. Returns nil for unauthenticated requests.
func SessionFromContext(ctx context.Context) *sessions.Session {
	session, ok := ctx.Value(sessionContextKey).(*sessions.Session)
	if !ok {
		return nil
	}
	return session
}

// TokenFromContext retrieves the raw bearer token for the request, so
// logout can delete the session it arrived on.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// extractBearerToken extracts the token from a Bearer Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// SessionAuth resolves the bearer token into a session and stores it in
// the request context. Requests without an Authorization header continue
// unauthenticated; a present but invalid token is a 401.
func SessionAuth(store *sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			session, err := store.Get(token)
			if err != nil {
				response.Err(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth blocks unauthenticated requests. Must be used after
// SessionAuth.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				response.Err(w, response.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePrivileges blocks sessions missing any bit in mask. Must be
// used after SessionAuth.
func RequirePrivileges(mask privileges.Privileges) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if session == nil {
				response.Err(w, response.ErrUnauthorized)
				return
			}
			if !session.Privileges.Has(mask) {
				response.Err(w, response.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
