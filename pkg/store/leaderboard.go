package store

import (
	"context"
	"sort"

	"github.com/soumetsu/soumetsu/internal/ranking"
	"github.com/soumetsu/soumetsu/pkg/models"
)

// GetLeaderboard pages through the pp ranking for one playstyle and mode.
// Hidden accounts never appear; country filters to a single flag.
func (s *GORMStore) GetLeaderboard(ctx context.Context, style models.Playstyle, mode models.GameMode, country string, page, limit int) ([]*LeaderboardEntry, error) {
	offset, limit := normalizePage(page, limit, 100)

	q := s.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Joins("JOIN users ON users.id = user_stats.user_id").
		Where("user_stats.playstyle = ? AND user_stats.mode = ?", style, mode).
		Where("user_stats.pp > 0").
		Where("users.privileges & 1 = 1").
		Order("user_stats.pp desc").
		Offset(offset).
		Limit(limit)

	if country != "" {
		q = q.Where("users.country = ?", country)
	}

	var stats []*models.UserStats
	if err := q.Find(&stats).Error; err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(stats))
	for i, st := range stats {
		user, err := s.GetUser(ctx, st.UserID)
		if err != nil {
			return nil, err
		}
		st.Level = ranking.LevelFromScore(st.TotalScore)
		st.GlobalRank = offset + i + 1
		entries = append(entries, &LeaderboardEntry{User: user, Stats: st})
	}
	return entries, nil
}

// GetClanLeaderboard ranks clans by weighted member pp: each member's pp
// contributes with a 0.95^i decay over the pp-sorted member list.
func (s *GORMStore) GetClanLeaderboard(ctx context.Context, style models.Playstyle, mode models.GameMode, page, limit int) ([]*ClanLeaderboardEntry, error) {
	offset, limit := normalizePage(page, limit, 50)

	var clans []*models.Clan
	if err := s.db.WithContext(ctx).Find(&clans).Error; err != nil {
		return nil, err
	}

	entries := make([]*ClanLeaderboardEntry, 0, len(clans))
	for _, clan := range clans {
		var pps []float64
		err := s.db.WithContext(ctx).
			Model(&models.UserStats{}).
			Select("user_stats.pp").
			Joins("JOIN clan_members ON clan_members.user_id = user_stats.user_id").
			Joins("JOIN users ON users.id = user_stats.user_id").
			Where("clan_members.clan_id = ?", clan.ID).
			Where("user_stats.playstyle = ? AND user_stats.mode = ?", style, mode).
			Where("users.privileges & 1 = 1").
			Order("user_stats.pp desc").
			Scan(&pps).Error
		if err != nil {
			return nil, err
		}

		entries = append(entries, &ClanLeaderboardEntry{
			Clan:       clan,
			WeightedPP: ranking.WeightedPP(pps),
			Members:    len(pps),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeightedPP > entries[j].WeightedPP
	})

	if offset >= len(entries) {
		return []*ClanLeaderboardEntry{}, nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}
