package models

import "time"

// Clan membership permission levels.
const (
	ClanPermMember = 1
	ClanPermOwner  = 2
)

// DefaultClanMemberLimit caps membership when a clan does not override it.
const DefaultClanMemberLimit = 16

// Clan is a player-created group competing on the clan leaderboard.
type Clan struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:32" json:"name"`
	Tag         string    `gorm:"uniqueIndex;not null;size:8" json:"tag"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Icon        string    `gorm:"size:512" json:"icon,omitempty"`
	OwnerID     int64     `gorm:"index;not null" json:"owner_id"`
	MemberLimit int       `gorm:"default:16" json:"member_limit"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Clan.
func (Clan) TableName() string {
	return "clans"
}

// ClanMember links a user to a clan with a permission level.
type ClanMember struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	ClanID   int64     `gorm:"uniqueIndex:idx_clan_member;not null" json:"clan_id"`
	UserID   int64     `gorm:"uniqueIndex:idx_clan_member;not null" json:"user_id"`
	Perms    int       `gorm:"not null;default:1" json:"perms"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// TableName returns the table name for ClanMember.
func (ClanMember) TableName() string {
	return "clan_members"
}
