package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/internal/storage"
)

// UserFilesHandler serves avatar and banner uploads.
type UserFilesHandler struct {
	backend   storage.Backend
	maxAvatar int64
	maxBanner int64
}

// NewUserFilesHandler creates a new UserFilesHandler.
func NewUserFilesHandler(backend storage.Backend, maxAvatar, maxBanner int64) *UserFilesHandler {
	return &UserFilesHandler{backend: backend, maxAvatar: maxAvatar, maxBanner: maxBanner}
}

// UploadResponse is the response body for successful uploads.
type UploadResponse struct {
	Key string `json:"key"`
}

// UploadAvatar handles POST /api/v2/users/me/avatar.
func (h *UserFilesHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "avatars", h.maxAvatar)
}

// UploadBanner handles POST /api/v2/users/me/banner.
func (h *UserFilesHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "banners", h.maxBanner)
}

// upload reads the multipart "file" field, enforces the size cap, sniffs
// the content type and writes the object under <kind>/<user>/<uuid>.<ext>.
func (h *UserFilesHandler) upload(w http.ResponseWriter, r *http.Request, kind string, maxBytes int64) {
	session := middleware.SessionFromContext(r.Context())

	// One extra byte so an at-the-limit body is distinguishable from an
	// over-limit one.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		response.Err(w, response.New(http.StatusRequestEntityTooLarge, "users", "file_too_large"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.Err(w, errInvalidBody)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		response.Err(w, err)
		return
	}
	if int64(len(data)) > maxBytes {
		response.Err(w, response.New(http.StatusRequestEntityTooLarge, "users", "file_too_large"))
		return
	}

	contentType := http.DetectContentType(data)
	var ext string
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpg"
	default:
		response.Err(w, response.New(http.StatusBadRequest, "users", "unsupported_media"))
		return
	}

	key := fmt.Sprintf("%s/%d/%s.%s", kind, session.UserID, uuid.NewString(), ext)
	if err := h.backend.Put(r.Context(), key, data, contentType); err != nil {
		response.Err(w, err)
		return
	}

	logger.Info("User file uploaded",
		"user_id", session.UserID,
		"kind", kind,
		"key", key,
		"bytes", len(data),
	)
	response.Data(w, http.StatusCreated, UploadResponse{Key: key})
}
