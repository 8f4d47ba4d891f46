package models

// UserStats is the aggregate gameplay record for one user in one
// playstyle and mode. One row per (user, playstyle, mode).
type UserStats struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID         int64     `gorm:"uniqueIndex:idx_stats_user_style_mode;not null" json:"user_id"`
	Playstyle      Playstyle `gorm:"uniqueIndex:idx_stats_user_style_mode;not null" json:"playstyle"`
	Mode           GameMode  `gorm:"uniqueIndex:idx_stats_user_style_mode;not null" json:"mode"`
	RankedScore    int64     `json:"ranked_score"`
	TotalScore     int64     `json:"total_score"`
	Playcount      int       `json:"playcount"`
	ReplaysWatched int       `json:"replays_watched"`
	TotalHits      int64     `json:"total_hits"`
	Accuracy       float64   `json:"accuracy"`
	PP             float64   `gorm:"column:pp;index" json:"pp"`
	MaxCombo       int       `json:"max_combo"`
	GlobalRank     int       `gorm:"-" json:"global_rank"`
	Level          float64   `gorm:"-" json:"level"`
}

// TableName returns the table name for UserStats.
func (UserStats) TableName() string {
	return "user_stats"
}
