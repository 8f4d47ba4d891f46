package models

import "time"

// UserHistoryEntry is a periodic snapshot of pp and global rank, used for
// the profile graphs.
type UserHistoryEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     int64     `gorm:"index:idx_history_user;not null" json:"user_id"`
	Playstyle  Playstyle `gorm:"index:idx_history_user;not null" json:"playstyle"`
	Mode       GameMode  `gorm:"index:idx_history_user;not null" json:"mode"`
	PP         float64   `gorm:"column:pp" json:"pp"`
	GlobalRank int       `json:"global_rank"`
	CapturedAt time.Time `gorm:"autoCreateTime;index" json:"captured_at"`
}

// TableName returns the table name for UserHistoryEntry.
func (UserHistoryEntry) TableName() string {
	return "user_history"
}
