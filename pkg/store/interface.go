package store

import (
	"context"
	"time"

	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
)

// Store is the persistence interface the HTTP layer depends on.
// GORMStore is the only production implementation; tests may substitute
// narrower fakes where convenient.
type Store interface {
	UserStore
	StatsStore
	ScoreStore
	BeatmapStore
	LeaderboardStore
	ClanStore
	SocialStore
	BadgeStore
	AchievementStore
	HistoryStore
	AuditLogStore

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, query string, page, limit int) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserProfile(ctx context.Context, user *models.User) error
	UpdateUserPrivileges(ctx context.Context, id int64, privs privileges.Privileges) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLatestActivity(ctx context.Context, id int64, at time.Time) error
	SetSilence(ctx context.Context, id int64, until *time.Time) error
	ListStaff(ctx context.Context) ([]*models.User, error)
}

// StatsStore manages per-playstyle, per-mode aggregate stats.
type StatsStore interface {
	GetUserStats(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode) (*models.UserStats, error)
	GetAllUserStats(ctx context.Context, userID int64, style models.Playstyle) ([]*models.UserStats, error)
	EnsureUserStats(ctx context.Context, userID int64) error
	GlobalRank(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode) (int, error)
}

// ScoreStore manages submitted plays.
type ScoreStore interface {
	GetScore(ctx context.Context, id int64) (*models.Score, error)
	GetUserBestScores(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error)
	GetUserRecentScores(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error)
	GetUserFirstPlaces(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error)
	GetBeatmapScores(ctx context.Context, beatmapMD5 string, style models.Playstyle, mode models.GameMode, limit int) ([]*models.Score, error)
}

// BeatmapStore manages cached beatmap metadata.
type BeatmapStore interface {
	GetBeatmap(ctx context.Context, beatmapID int64) (*models.Beatmap, error)
	GetBeatmapByMD5(ctx context.Context, md5 string) (*models.Beatmap, error)
	UpsertBeatmap(ctx context.Context, beatmap *models.Beatmap) error
	SetBeatmapRankedStatus(ctx context.Context, beatmapID int64, status int, frozen bool) error
}

// LeaderboardEntry pairs a user with the stats row that placed them.
type LeaderboardEntry struct {
	User  *models.User      `json:"user"`
	Stats *models.UserStats `json:"stats"`
}

// ClanLeaderboardEntry is one clan's aggregate standing.
type ClanLeaderboardEntry struct {
	Clan       *models.Clan `json:"clan"`
	WeightedPP float64      `json:"weighted_pp"`
	Members    int          `json:"members"`
}

// LeaderboardStore computes rankings.
type LeaderboardStore interface {
	GetLeaderboard(ctx context.Context, style models.Playstyle, mode models.GameMode, country string, page, limit int) ([]*LeaderboardEntry, error)
	GetClanLeaderboard(ctx context.Context, style models.Playstyle, mode models.GameMode, page, limit int) ([]*ClanLeaderboardEntry, error)
}

// ClanStore manages clans and membership.
type ClanStore interface {
	CreateClan(ctx context.Context, clan *models.Clan) error
	GetClan(ctx context.Context, id int64) (*models.Clan, error)
	ListClans(ctx context.Context, page, limit int) ([]*models.Clan, error)
	UpdateClan(ctx context.Context, clan *models.Clan) error
	DeleteClan(ctx context.Context, id int64) error
	GetClanMembers(ctx context.Context, clanID int64) ([]*models.ClanMember, error)
	AddClanMember(ctx context.Context, clanID, userID int64, perms int) error
	RemoveClanMember(ctx context.Context, clanID, userID int64) error
}

// SocialStore manages friendships and profile comments.
type SocialStore interface {
	ListFriends(ctx context.Context, userID int64) ([]*models.Friendship, error)
	IsFriend(ctx context.Context, userID, friendID int64) (bool, error)
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error

	ListProfileComments(ctx context.Context, profileID int64, page, limit int) ([]*models.ProfileComment, error)
	GetComment(ctx context.Context, id int64) (*models.ProfileComment, error)
	CreateComment(ctx context.Context, comment *models.ProfileComment) error
	DeleteComment(ctx context.Context, id int64) error
}

// BadgeStore manages badges and their assignment.
type BadgeStore interface {
	ListBadges(ctx context.Context) ([]*models.Badge, error)
	GetBadge(ctx context.Context, id int64) (*models.Badge, error)
	GetUserBadges(ctx context.Context, userID int64) ([]*models.Badge, error)
	GrantBadge(ctx context.Context, userID, badgeID int64) error
}

// AchievementStore manages medals.
type AchievementStore interface {
	ListAchievements(ctx context.Context) ([]*models.Achievement, error)
	GetUserAchievements(ctx context.Context, userID int64) ([]*models.Achievement, error)
	UnlockAchievement(ctx context.Context, userID, achievementID int64) error
}

// HistoryStore manages pp/rank snapshots.
type HistoryStore interface {
	GetUserHistory(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, since time.Time) ([]*models.UserHistoryEntry, error)
	RecordHistory(ctx context.Context, entry *models.UserHistoryEntry) error
}

// AuditLogStore records moderation actions.
type AuditLogStore interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	ListAuditLogs(ctx context.Context, page, limit int) ([]*models.AuditLog, error)
}
