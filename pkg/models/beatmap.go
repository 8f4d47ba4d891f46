package models

import "time"

// Ranked status values for beatmaps, matching the osu! API convention.
const (
	BeatmapPending   = 0
	BeatmapNeedsWork = -1
	BeatmapRanked    = 2
	BeatmapApproved  = 3
	BeatmapQualified = 4
	BeatmapLoved     = 5
)

// Beatmap is the locally cached metadata for one difficulty.
type Beatmap struct {
	BeatmapID          int64     `gorm:"primaryKey" json:"beatmap_id"`
	BeatmapsetID       int64     `gorm:"index" json:"beatmapset_id"`
	MD5                string    `gorm:"column:md5;uniqueIndex;not null;size:32" json:"beatmap_md5"`
	SongName           string    `gorm:"size:512" json:"song_name"`
	AR                 float64   `gorm:"column:ar" json:"ar"`
	OD                 float64   `gorm:"column:od" json:"od"`
	Mode               GameMode  `json:"mode"`
	MaxCombo           int       `json:"max_combo"`
	HitLength          int       `json:"hit_length"`
	BPM                float64   `gorm:"column:bpm" json:"bpm"`
	DifficultyStandard float64   `json:"difficulty_std"`
	DifficultyTaiko    float64   `json:"difficulty_taiko"`
	DifficultyCatch    float64   `json:"difficulty_ctb"`
	DifficultyMania    float64   `json:"difficulty_mania"`
	Ranked             int       `gorm:"index" json:"ranked"`
	RankedStatusFrozen bool      `json:"ranked_status_frozen"`
	Playcount          int       `json:"playcount"`
	Passcount          int       `json:"passcount"`
	LatestUpdate       time.Time `json:"latest_update"`
}

// TableName returns the table name for Beatmap.
func (Beatmap) TableName() string {
	return "beatmaps"
}

// Difficulty returns the star rating for the requested mode.
func (b *Beatmap) Difficulty(mode GameMode) float64 {
	switch mode {
	case ModeTaiko:
		return b.DifficultyTaiko
	case ModeCatch:
		return b.DifficultyCatch
	case ModeMania:
		return b.DifficultyMania
	default:
		return b.DifficultyStandard
	}
}
