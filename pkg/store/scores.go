package store

import (
	"context"

	"github.com/soumetsu/soumetsu/pkg/models"
)

func (s *GORMStore) GetScore(ctx context.Context, id int64) (*models.Score, error) {
	return getByField[models.Score](s.db, ctx, "id", id, models.ErrScoreNotFound)
}

// GetUserBestScores returns personal bests ordered by pp. Only ranked and
// approved maps count toward bests, matching the stats computation.
func (s *GORMStore) GetUserBestScores(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error) {
	offset, limit := normalizePage(page, limit, 100)

	var scores []*models.Score
	err := s.db.WithContext(ctx).
		Joins("JOIN beatmaps ON beatmaps.md5 = scores.beatmap_md5").
		Where("scores.user_id = ? AND scores.playstyle = ? AND scores.mode = ?", userID, style, mode).
		Where("scores.completed = ?", models.ScorePersonalBest).
		Where("beatmaps.ranked IN ?", []int{models.BeatmapRanked, models.BeatmapApproved}).
		Order("scores.pp desc").
		Offset(offset).
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (s *GORMStore) GetUserRecentScores(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error) {
	offset, limit := normalizePage(page, limit, 100)

	var scores []*models.Score
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND playstyle = ? AND mode = ?", userID, style, mode).
		Order("played_at desc").
		Offset(offset).
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// GetUserFirstPlaces returns the user's personal bests that top their
// map's leaderboard.
func (s *GORMStore) GetUserFirstPlaces(ctx context.Context, userID int64, style models.Playstyle, mode models.GameMode, page, limit int) ([]*models.Score, error) {
	offset, limit := normalizePage(page, limit, 100)

	sub := s.db.
		Model(&models.Score{}).
		Select("beatmap_md5, MAX(pp) AS best_pp").
		Where("playstyle = ? AND mode = ? AND completed = ?", style, mode, models.ScorePersonalBest).
		Group("beatmap_md5")

	var scores []*models.Score
	err := s.db.WithContext(ctx).
		Joins("JOIN (?) AS tops ON tops.beatmap_md5 = scores.beatmap_md5 AND tops.best_pp = scores.pp", sub).
		Where("scores.user_id = ? AND scores.playstyle = ? AND scores.mode = ?", userID, style, mode).
		Where("scores.completed = ?", models.ScorePersonalBest).
		Order("scores.pp desc").
		Offset(offset).
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// GetBeatmapScores returns a map's leaderboard: one personal best per
// user, best pp first, hidden accounts excluded.
func (s *GORMStore) GetBeatmapScores(ctx context.Context, beatmapMD5 string, style models.Playstyle, mode models.GameMode, limit int) ([]*models.Score, error) {
	_, limit = normalizePage(1, limit, 100)

	var scores []*models.Score
	err := s.db.WithContext(ctx).
		Joins("JOIN users ON users.id = scores.user_id").
		Where("scores.beatmap_md5 = ? AND scores.playstyle = ? AND scores.mode = ?", beatmapMD5, style, mode).
		Where("scores.completed = ?", models.ScorePersonalBest).
		Where("users.privileges & 1 = 1").
		Order("scores.pp desc, scores.total_score desc").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
