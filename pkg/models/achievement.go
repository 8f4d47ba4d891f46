package models

import "time"

// Achievement is a server-defined medal.
type Achievement struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null;size:128" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	Icon        string `gorm:"size:512" json:"icon"`
}

// TableName returns the table name for Achievement.
func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records an unlocked medal.
type UserAchievement struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID        int64     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID int64     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// TableName returns the table name for UserAchievement.
func (UserAchievement) TableName() string {
	return "user_achievements"
}
