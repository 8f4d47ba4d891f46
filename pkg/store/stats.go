package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/internal/ranking"
	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) GetUserStats(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND playstyle = ? AND mode = ?", userID, style, mode).
		First(&stats).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrStatsNotFound)
	}

	stats.Level = ranking.LevelFromScore(stats.TotalScore)
	rank, err := s.GlobalRank(ctx, userID, style, mode)
	if err != nil {
		return nil, err
	}
	stats.GlobalRank = rank
	return &stats, nil
}

func (s *GORMStore) GetAllUserStats(ctx context.Context, userID int64, style models.Playstyle) ([]*models.UserStats, error) {
	var stats []*models.UserStats
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND playstyle = ?", userID, style).
		Order("mode asc").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}

	for _, st := range stats {
		st.Level = ranking.LevelFromScore(st.TotalScore)
	}
	return stats, nil
}

// EnsureUserStats creates the full stats grid for a user: one row per
// (playstyle, mode) combination. Existing rows are left untouched.
func (s *GORMStore) EnsureUserStats(ctx context.Context, userID int64) error {
	rows := make([]models.UserStats, 0, 12)
	for style := models.PlaystyleVanilla; style <= models.PlaystyleAutopilot; style++ {
		for mode := models.ModeStandard; mode <= models.ModeMania; mode++ {
			rows = append(rows, models.UserStats{
				UserID:    userID,
				Playstyle: style,
				Mode:      mode,
			})
		}
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// GlobalRank is the user's 1-based position on the pp leaderboard for the
// given playstyle and mode. Hidden accounts rank as 0.
func (s *GORMStore) GlobalRank(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode) (int, error) {
	var privs privileges.Privileges
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("privileges").
		Where("id = ?", userID).
		Scan(&privs).Error
	if err != nil {
		return 0, err
	}
	if !privs.Has(privileges.UserPublic) {
		return 0, nil
	}

	var pp float64
	err = s.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Select("pp").
		Where("user_id = ? AND playstyle = ? AND mode = ?", userID, style, mode).
		Scan(&pp).Error
	if err != nil {
		return 0, convertNotFoundError(err, models.ErrStatsNotFound)
	}

	var ahead int64
	err = s.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Joins("JOIN users ON users.id = user_stats.user_id").
		Where("user_stats.playstyle = ? AND user_stats.mode = ? AND user_stats.pp > ?", style, mode, pp).
		Where("users.privileges & 1 = 1"). // public bit
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}

	return int(ahead) + 1, nil
}
