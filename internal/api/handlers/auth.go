package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/crypto"
	"github.com/soumetsu/soumetsu/internal/hcaptcha"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/internal/metrics"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// Username policy matches the game client: 2-15 characters, letters,
// digits, spaces, underscores, brackets and dashes.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9 _\[\]-]{2,15}$`)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthHandler handles registration, login and session management.
type AuthHandler struct {
	store    store.Store
	sessions *sessions.Store
	captcha  *hcaptcha.Client
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s store.Store, sess *sessions.Store, captcha *hcaptcha.Client) *AuthHandler {
	return &AuthHandler{store: s, sessions: sess, captcha: captcha}
}

// RegisterRequest is the request body for POST /api/v2/auth/register.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

// LoginRequest is the request body for POST /api/v2/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly minted session.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register handles POST /api/v2/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if !usernameRe.MatchString(req.Username) {
		response.Err(w, response.New(http.StatusBadRequest, "auth", "invalid_username"))
		return
	}
	if !emailRe.MatchString(req.Email) {
		response.Err(w, response.New(http.StatusBadRequest, "auth", "invalid_email"))
		return
	}
	if len(req.Password) < 8 {
		response.Err(w, response.New(http.StatusBadRequest, "auth", "password_too_short"))
		return
	}

	ok, err := h.captcha.Verify(r.Context(), req.CaptchaToken, clientIP(r))
	if err != nil {
		logger.Warn("Captcha verification unavailable", "error", err)
		response.Err(w, response.ErrInternal)
		return
	}
	if !ok {
		response.Err(w, response.New(http.StatusBadRequest, "auth", "bad_captcha"))
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		response.Err(w, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Privileges:   privileges.Default,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		response.Err(w, err)
		return
	}
	if err := h.store.EnsureUserStats(r.Context(), user.ID); err != nil {
		response.Err(w, err)
		return
	}

	token, session, err := h.sessions.Create(user.ID, user.Privileges, clientIP(r))
	if err != nil {
		response.Err(w, err)
		return
	}
	metrics.SessionsCreated.Inc()

	logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	response.Data(w, http.StatusCreated, TokenResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	})
}

// Login handles POST /api/v2/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		response.Err(w, models.ErrInvalidCredentials)
		return
	}

	user, err := h.store.GetUserByName(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// Same answer as a wrong password, no account probing.
			response.Err(w, models.ErrInvalidCredentials)
			return
		}
		response.Err(w, err)
		return
	}

	if !crypto.CheckPassword(user.PasswordHash, req.Password) {
		response.Err(w, models.ErrInvalidCredentials)
		return
	}
	if user.Privileges.IsBanned() {
		response.Err(w, models.ErrUserBanned)
		return
	}

	// First successful login completes verification.
	if user.Privileges.IsPending() {
		user.Privileges &^= privileges.UserPendingVerification
		if err := h.store.UpdateUserPrivileges(r.Context(), user.ID, user.Privileges); err != nil {
			response.Err(w, err)
			return
		}
	}

	if err := h.store.UpdateLatestActivity(r.Context(), user.ID, time.Now()); err != nil {
		logger.WarnCtx(r.Context(), "Failed to update latest activity", "user_id", user.ID, "error", err)
	}

	token, session, err := h.sessions.Create(user.ID, user.Privileges, clientIP(r))
	if err != nil {
		response.Err(w, err)
		return
	}
	metrics.SessionsCreated.Inc()

	logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	response.Data(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	})
}

// Logout handles POST /api/v2/auth/logout. Deletes the session the
// request arrived on.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if err := h.sessions.Delete(token); err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, nil)
}

// Me handles GET /api/v2/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	user, err := h.store.GetUser(r.Context(), session.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, user)
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from the forwarding
	// headers before we get here.
	return r.RemoteAddr
}
