package store

import (
	"context"
	"time"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) GetUserHistory(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, since time.Time) ([]*models.UserHistoryEntry, error) {
	var entries []*models.UserHistoryEntry
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND playstyle = ? AND mode = ?", userID, style, mode).
		Order("captured_at asc")

	if !since.IsZero() {
		q = q.Where("captured_at >= ?", since)
	}

	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GORMStore) RecordHistory(ctx context.Context, entry *models.UserHistoryEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
