package models

import "time"

// Friendship is a directed edge; the relationship is "mutual" when the
// reverse edge exists too.
type Friendship struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    int64     `gorm:"uniqueIndex:idx_friend_pair;not null" json:"user_id"`
	FriendID  int64     `gorm:"uniqueIndex:idx_friend_pair;not null" json:"friend_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Friendship.
func (Friendship) TableName() string {
	return "friendships"
}

// ProfileComment is a message left on another user's profile.
type ProfileComment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID  int64     `gorm:"index;not null" json:"author_id"`
	ProfileID int64     `gorm:"index;not null" json:"profile_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	PostedAt  time.Time `gorm:"autoCreateTime" json:"posted_at"`
}

// TableName returns the table name for ProfileComment.
func (ProfileComment) TableName() string {
	return "profile_comments"
}
