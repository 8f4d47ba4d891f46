package store

import (
	"context"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

func (s *GORMStore) ListAuditLogs(ctx context.Context, page, limit int) ([]*models.AuditLog, error) {
	offset, limit := normalizePage(page, limit, 100)

	var logs []*models.AuditLog
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
