package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) GetBeatmap(ctx context.Context, beatmapID int64) (*models.Beatmap, error) {
	return getByField[models.Beatmap](s.db, ctx, "beatmap_id", beatmapID, models.ErrBeatmapNotFound)
}

func (s *GORMStore) GetBeatmapByMD5(ctx context.Context, md5 string) (*models.Beatmap, error) {
	return getByField[models.Beatmap](s.db, ctx, "md5", md5, models.ErrBeatmapNotFound)
}

// UpsertBeatmap inserts or refreshes cached metadata for one difficulty.
// A frozen ranked status survives the refresh.
func (s *GORMStore) UpsertBeatmap(ctx context.Context, beatmap *models.Beatmap) error {
	existing, err := s.GetBeatmap(ctx, beatmap.BeatmapID)
	if err == nil && existing.RankedStatusFrozen {
		beatmap.Ranked = existing.Ranked
		beatmap.RankedStatusFrozen = true
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "beatmap_id"}},
			UpdateAll: true,
		}).
		Create(beatmap).Error
}

// SetBeatmapRankedStatus overrides the ranked status, optionally freezing
// it against future metadata refreshes.
func (s *GORMStore) SetBeatmapRankedStatus(ctx context.Context, beatmapID int64, status int, frozen bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.Beatmap{}).
		Where("beatmap_id = ?", beatmapID).
		Updates(map[string]any{
			"ranked":               status,
			"ranked_status_frozen": frozen,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrBeatmapNotFound
	}
	return nil
}
