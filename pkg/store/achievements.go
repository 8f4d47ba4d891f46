package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	if err := s.db.WithContext(ctx).Order("id asc").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (s *GORMStore) GetUserAchievements(ctx context.Context, userID int64) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	err := s.db.WithContext(ctx).
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.unlocked_at asc").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

// UnlockAchievement records a medal; unlocking twice is a no-op.
func (s *GORMStore) UnlockAchievement(ctx context.Context, userID, achievementID int64) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Achievement{}).
		Where("id = ?", achievementID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.ErrAchievementNotFound
	}

	unlock := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(unlock).Error
}
