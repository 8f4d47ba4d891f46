package models

import (
	"strings"
	"time"

	"github.com/soumetsu/soumetsu/internal/privileges"
)

// User is a registered account.
//
// SafeUsername is the canonical lookup key: lowercased with spaces folded
// to underscores. It is maintained alongside Username on every rename.
type User struct {
	ID             int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string                `gorm:"uniqueIndex;not null;size:32" json:"username"`
	SafeUsername   string                `gorm:"uniqueIndex;not null;size:32" json:"-"`
	Email          string                `gorm:"uniqueIndex;not null;size:255" json:"-"`
	PasswordHash   string                `gorm:"not null" json:"-"`
	Country        string                `gorm:"size:2;default:XX" json:"country"`
	Privileges     privileges.Privileges `gorm:"not null;default:0" json:"privileges"`
	RegisteredAt   time.Time             `gorm:"autoCreateTime" json:"registered_at"`
	LatestActivity time.Time             `json:"latest_activity"`
	SilenceEnd     *time.Time            `json:"silence_end,omitempty"`
	Userpage       string                `gorm:"type:text" json:"userpage,omitempty"`
	FavouriteMode  GameMode              `gorm:"default:0" json:"favourite_mode"`
	ClanID         *int64                `gorm:"index" json:"clan_id,omitempty"`
	Notes          string                `gorm:"type:text" json:"-"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// IsSilenced reports whether the user currently has an active silence.
func (u *User) IsSilenced(now time.Time) bool {
	return u.SilenceEnd != nil && u.SilenceEnd.After(now)
}

// SafeName folds a username into its canonical lookup form.
func SafeName(username string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(username)), " ", "_")
}
