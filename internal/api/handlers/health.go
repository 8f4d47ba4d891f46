package handlers

import (
	"net/http"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store    store.Store
	sessions *sessions.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store, sess *sessions.Store) *HealthHandler {
	return &HealthHandler{store: s, sessions: sess}
}

// Liveness handles GET /health. Always succeeds while the process runs.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"state": "alive"})
}

// Readiness handles GET /health/ready. Checks the database and the
// session store.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"sessions": "ok",
	}
	healthy := true

	if err := h.store.Ping(r.Context()); err != nil {
		logger.Warn("Database readiness check failed", "error", err)
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := h.sessions.Ping(); err != nil {
		logger.Warn("Session store readiness check failed", "error", err)
		checks["sessions"] = "unavailable"
		healthy = false
	}

	if !healthy {
		response.Data(w, http.StatusServiceUnavailable, checks)
		return
	}
	response.Data(w, http.StatusOK, checks)
}
