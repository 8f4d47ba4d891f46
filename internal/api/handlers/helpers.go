// Package handlers implements the HTTP endpoints of the Soumetsu API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/pkg/models"
)

var (
	errInvalidBody  = response.New(http.StatusBadRequest, "global", "invalid_body")
	errInvalidParam = response.New(http.StatusBadRequest, "global", "invalid_param")
)

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful; on failure the error response has already
// been written.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Err(w, errInvalidBody)
		return false
	}
	return true
}

// urlParamInt64 parses a chi URL parameter as int64.
func urlParamInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errInvalidParam
	}
	return value, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// paging extracts page/limit query parameters with sane defaults.
func paging(r *http.Request) (page, limit int) {
	return queryInt(r, "page", 1), queryInt(r, "limit", 50)
}

// queryMode parses the mode query parameter, defaulting to standard.
func queryMode(r *http.Request) (models.GameMode, error) {
	mode := models.GameMode(queryInt(r, "mode", int(models.ModeStandard)))
	if !mode.IsValid() {
		return 0, errInvalidParam
	}
	return mode, nil
}

// queryStyle parses the playstyle query parameter, defaulting to vanilla.
func queryStyle(r *http.Request) (models.Playstyle, error) {
	style := models.Playstyle(queryInt(r, "playstyle", int(models.PlaystyleVanilla)))
	if !style.IsValid() {
		return 0, errInvalidParam
	}
	return style, nil
}

// queryModeStyle parses both gameplay selectors in one shot, since almost
// every score and stats endpoint takes the pair.
func queryModeStyle(r *http.Request) (models.GameMode, models.Playstyle, error) {
	mode, err := queryMode(r)
	if err != nil {
		return 0, 0, err
	}
	style, err := queryStyle(r)
	if err != nil {
		return 0, 0, err
	}
	return mode, style, nil
}
