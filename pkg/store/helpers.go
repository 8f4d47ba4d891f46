package store

import (
	"context"

	"gorm.io/gorm"
)

// getByField fetches a single record matching field = value, converting
// gorm's not-found error to the given domain error.
func getByField[T any](db *gorm.DB, ctx context.Context, field string, value any, notFoundErr error) (*T, error) {
	var record T
	if err := db.WithContext(ctx).Where(field+" = ?", value).First(&record).Error; err != nil {
		return nil, convertNotFoundError(err, notFoundErr)
	}
	return &record, nil
}

// normalizePage clamps paging parameters to sane values.
func normalizePage(page, limit, maxLimit int) (offset, clamped int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return (page - 1) * limit, limit
}
