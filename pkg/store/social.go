package store

import (
	"context"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) ListFriends(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	var friends []*models.Friendship
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}

func (s *GORMStore) IsFriend(ctx context.Context, userID, friendID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GORMStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return models.ErrSelfFriendship
	}

	friendship := &models.Friendship{
		UserID:   userID,
		FriendID: friendID,
	}
	if err := s.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.ErrFriendshipExists
		}
		return err
	}
	return nil
}

func (s *GORMStore) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFriendshipNotFound
	}
	return nil
}

func (s *GORMStore) ListProfileComments(ctx context.Context, profileID int64, page, limit int) ([]*models.ProfileComment, error) {
	offset, limit := normalizePage(page, limit, 100)

	var comments []*models.ProfileComment
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("posted_at desc").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *GORMStore) GetComment(ctx context.Context, id int64) (*models.ProfileComment, error) {
	return getByField[models.ProfileComment](s.db, ctx, "id", id, models.ErrCommentNotFound)
}

func (s *GORMStore) CreateComment(ctx context.Context, comment *models.ProfileComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *GORMStore) DeleteComment(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ProfileComment{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}
