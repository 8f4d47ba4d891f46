package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/internal/ranking"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// PeppyHandler implements the legacy osu! API v1 compatibility surface,
// mounted at /api instead of /api/v2. Responses are bare JSON arrays with
// every value encoded as a string, exactly as old clients expect, so this
// layer bypasses the response envelope.
type PeppyHandler struct {
	store store.Store
}

// NewPeppyHandler creates a new PeppyHandler.
func NewPeppyHandler(s store.Store) *PeppyHandler {
	return &PeppyHandler{store: s}
}

const peppyTimeFormat = "2006-01-02 15:04:05"

// peppyUser is the get_user element. All strings, per the v1 contract.
type peppyUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	JoinDate    string `json:"join_date"`
	Playcount   string `json:"playcount"`
	RankedScore string `json:"ranked_score"`
	TotalScore  string `json:"total_score"`
	PPRank      string `json:"pp_rank"`
	Level       string `json:"level"`
	PPRaw       string `json:"pp_raw"`
	Accuracy    string `json:"accuracy"`
	Country     string `json:"country"`
}

// peppyScore is the get_scores / get_user_recent element.
type peppyScore struct {
	ScoreID     string `json:"score_id"`
	BeatmapID   string `json:"beatmap_id,omitempty"`
	Score       string `json:"score"`
	Username    string `json:"username,omitempty"`
	Count300    string `json:"count300"`
	Count100    string `json:"count100"`
	Count50     string `json:"count50"`
	CountMiss   string `json:"countmiss"`
	MaxCombo    string `json:"maxcombo"`
	CountKatu   string `json:"countkatu"`
	CountGeki   string `json:"countgeki"`
	Perfect     string `json:"perfect"`
	EnabledMods string `json:"enabled_mods"`
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	Rank        string `json:"rank"`
	PP          string `json:"pp"`
}

// GetUser handles GET /api/get_user. The u parameter accepts a user id
// or a username.
func (h *PeppyHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	mode, err := peppyMode(r)
	if err != nil {
		response.Err(w, err)
		return
	}

	user, err := h.lookupUser(r.Context(), r.URL.Query().Get("u"))
	if err != nil {
		writePeppyJSON(w, []peppyUser{})
		return
	}

	stats, err := h.store.GetUserStats(r.Context(), user.ID, models.PlaystyleVanilla, mode)
	if err != nil {
		writePeppyJSON(w, []peppyUser{})
		return
	}

	writePeppyJSON(w, []peppyUser{{
		UserID:      strconv.FormatInt(user.ID, 10),
		Username:    user.Username,
		JoinDate:    user.RegisteredAt.UTC().Format(peppyTimeFormat),
		Playcount:   strconv.Itoa(stats.Playcount),
		RankedScore: strconv.FormatInt(stats.RankedScore, 10),
		TotalScore:  strconv.FormatInt(stats.TotalScore, 10),
		PPRank:      strconv.Itoa(stats.GlobalRank),
		Level:       strconv.FormatFloat(ranking.LevelFromScore(stats.TotalScore), 'f', 4, 64),
		PPRaw:       strconv.FormatFloat(stats.PP, 'f', 2, 64),
		Accuracy:    strconv.FormatFloat(stats.Accuracy, 'f', 6, 64),
		Country:     user.Country,
	}})
}

// GetScores handles GET /api/get_scores. The b parameter is the beatmap
// id.
func (h *PeppyHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	mode, err := peppyMode(r)
	if err != nil {
		response.Err(w, err)
		return
	}
	beatmapID, err := strconv.ParseInt(r.URL.Query().Get("b"), 10, 64)
	if err != nil {
		response.Err(w, errInvalidParam)
		return
	}
	limit := peppyLimit(r, 50)

	beatmap, err := h.store.GetBeatmap(r.Context(), beatmapID)
	if err != nil {
		writePeppyJSON(w, []peppyScore{})
		return
	}

	scores, err := h.store.GetBeatmapScores(r.Context(), beatmap.MD5, models.PlaystyleVanilla, mode, limit)
	if err != nil {
		writePeppyJSON(w, []peppyScore{})
		return
	}

	out := make([]peppyScore, 0, len(scores))
	for _, score := range scores {
		entry := h.peppyScore(r.Context(), score, false)

		// get_scores includes the player's name.
		if user, err := h.store.GetUser(r.Context(), score.UserID); err == nil {
			entry.Username = user.Username
		}
		out = append(out, entry)
	}
	writePeppyJSON(w, out)
}

// GetUserRecent handles GET /api/get_user_recent.
func (h *PeppyHandler) GetUserRecent(w http.ResponseWriter, r *http.Request) {
	mode, err := peppyMode(r)
	if err != nil {
		response.Err(w, err)
		return
	}
	limit := peppyLimit(r, 10)

	user, err := h.lookupUser(r.Context(), r.URL.Query().Get("u"))
	if err != nil {
		writePeppyJSON(w, []peppyScore{})
		return
	}

	scores, err := h.store.GetUserRecentScores(r.Context(), user.ID, models.PlaystyleVanilla, mode, 1, limit)
	if err != nil {
		writePeppyJSON(w, []peppyScore{})
		return
	}

	out := make([]peppyScore, 0, len(scores))
	for _, score := range scores {
		out = append(out, h.peppyScore(r.Context(), score, true))
	}
	writePeppyJSON(w, out)
}

func (h *PeppyHandler) peppyScore(ctx context.Context, score *models.Score, withBeatmap bool) peppyScore {
	perfect := "0"
	if score.FullCombo {
		perfect = "1"
	}

	entry := peppyScore{
		ScoreID:     strconv.FormatInt(score.ID, 10),
		Score:       strconv.FormatInt(score.TotalScore, 10),
		Count300:    strconv.Itoa(score.Count300),
		Count100:    strconv.Itoa(score.Count100),
		Count50:     strconv.Itoa(score.Count50),
		CountMiss:   strconv.Itoa(score.CountMiss),
		MaxCombo:    strconv.Itoa(score.MaxCombo),
		CountKatu:   strconv.Itoa(score.CountKatu),
		CountGeki:   strconv.Itoa(score.CountGeki),
		Perfect:     perfect,
		EnabledMods: strconv.Itoa(score.Mods),
		UserID:      strconv.FormatInt(score.UserID, 10),
		Date:        score.PlayedAt.UTC().Format(peppyTimeFormat),
		Rank:        score.Rank(),
		PP:          strconv.FormatFloat(score.PP, 'f', 2, 64),
	}

	if withBeatmap {
		if beatmap, err := h.store.GetBeatmapByMD5(ctx, score.BeatmapMD5); err == nil {
			entry.BeatmapID = strconv.FormatInt(beatmap.BeatmapID, 10)
		} else {
			entry.BeatmapID = "0"
		}
	}
	return entry
}

// lookupUser resolves the u parameter as an id when numeric, otherwise
// as a username.
func (h *PeppyHandler) lookupUser(ctx context.Context, u string) (*models.User, error) {
	if u == "" {
		return nil, models.ErrUserNotFound
	}
	if id, err := strconv.ParseInt(u, 10, 64); err == nil {
		user, err := h.store.GetUser(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		// Fall through: all-digit usernames exist.
	}
	return h.store.GetUserByName(ctx, u)
}

func peppyMode(r *http.Request) (models.GameMode, error) {
	mode := models.GameMode(queryInt(r, "m", int(models.ModeStandard)))
	if !mode.IsValid() {
		return 0, errInvalidParam
	}
	return mode, nil
}

func peppyLimit(r *http.Request, fallback int) int {
	limit := queryInt(r, "limit", fallback)
	if limit < 1 || limit > 100 {
		return fallback
	}
	return limit
}

func writePeppyJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode legacy response", "error", err)
	}
}
