package models

import "time"

// Badge is an admin-granted profile decoration.
type Badge struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:64" json:"name"`
	Icon string `gorm:"size:512" json:"icon"`
}

// TableName returns the table name for Badge.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge assigns a badge to a user.
type UserBadge struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    int64     `gorm:"uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeID   int64     `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	GrantedAt time.Time `gorm:"autoCreateTime" json:"granted_at"`
}

// TableName returns the table name for UserBadge.
func (UserBadge) TableName() string {
	return "user_badges"
}
