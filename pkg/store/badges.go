package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	var badges []*models.Badge
	if err := s.db.WithContext(ctx).Order("id asc").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (s *GORMStore) GetBadge(ctx context.Context, id int64) (*models.Badge, error) {
	return getByField[models.Badge](s.db, ctx, "id", id, models.ErrBadgeNotFound)
}

func (s *GORMStore) GetUserBadges(ctx context.Context, userID int64) ([]*models.Badge, error) {
	var badges []*models.Badge
	err := s.db.WithContext(ctx).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.granted_at asc").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

// GrantBadge assigns a badge; re-granting is a no-op.
func (s *GORMStore) GrantBadge(ctx context.Context, userID, badgeID int64) error {
	if _, err := s.GetBadge(ctx, badgeID); err != nil {
		return err
	}

	assignment := &models.UserBadge{
		UserID:  userID,
		BadgeID: badgeID,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(assignment).Error
}
