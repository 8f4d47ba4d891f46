package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
)

func setupStore(t *testing.T) *GORMStore {
	t.Helper()

	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestUser(t *testing.T, s *GORMStore, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Privileges:   privileges.UserPublic | privileges.UserNormal,
		Country:      "JP",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	require.NoError(t, s.EnsureUserStats(context.Background(), user.ID))
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "White Cat")

	byID, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "White Cat", byID.Username)
	assert.Equal(t, "white_cat", byID.SafeUsername)

	// Lookup is case and space insensitive through the safe name.
	byName, err := s.GetUserByName(ctx, "WHITE cat")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = s.GetUser(ctx, 99999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestCreateUserDuplicate(t *testing.T) {
	s := setupStore(t)

	createTestUser(t, s, "cookiezi")

	dup := &models.User{
		Username:     "Cookiezi",
		Email:        "other@example.com",
		PasswordHash: "x",
	}
	err := s.CreateUser(context.Background(), dup)
	assert.ErrorIs(t, err, models.ErrDuplicateUser)
}

func TestUpdateUserPassword(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "rekeyed")
	require.NoError(t, s.UpdateUserPassword(ctx, user.ID, "new-hash"))

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	err = s.UpdateUserPassword(ctx, 99999, "x")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestSearchUsersExcludesRestricted(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	visible := createTestUser(t, s, "peppy")
	hidden := createTestUser(t, s, "peppy_two")
	require.NoError(t, s.UpdateUserPrivileges(ctx, hidden.ID, privileges.Privileges(0).Restrict()|privileges.UserNormal))

	results, err := s.SearchUsers(ctx, "peppy", 1, 50)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, visible.ID, results[0].ID)
}

func TestEnsureUserStatsCreatesFullGrid(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "gridcheck")

	// 3 playstyles x 4 modes
	for style := models.PlaystyleVanilla; style <= models.PlaystyleAutopilot; style++ {
		stats, err := s.GetAllUserStats(ctx, user.ID, style)
		require.NoError(t, err)
		assert.Len(t, stats, 4, "playstyle %s", style)
	}

	// Idempotent
	require.NoError(t, s.EnsureUserStats(ctx, user.ID))
	stats, err := s.GetAllUserStats(ctx, user.ID, models.PlaystyleVanilla)
	require.NoError(t, err)
	assert.Len(t, stats, 4)
}

func TestGlobalRankOrdering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first := createTestUser(t, s, "rank_first")
	second := createTestUser(t, s, "rank_second")

	setPP(t, s, first.ID, models.PlaystyleVanilla, models.ModeStandard, 7000)
	setPP(t, s, second.ID, models.PlaystyleVanilla, models.ModeStandard, 5000)

	rank, err := s.GlobalRank(ctx, first.ID, models.PlaystyleVanilla, models.ModeStandard)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rank, err = s.GlobalRank(ctx, second.ID, models.PlaystyleVanilla, models.ModeStandard)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}

func TestGlobalRankHiddenAccount(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "rank_hidden")
	rival := createTestUser(t, s, "rank_rival")
	setPP(t, s, user.ID, models.PlaystyleVanilla, models.ModeStandard, 7000)
	setPP(t, s, rival.ID, models.PlaystyleVanilla, models.ModeStandard, 5000)

	require.NoError(t, s.UpdateUserPrivileges(ctx, user.ID, user.Privileges.Restrict()))

	rank, err := s.GlobalRank(ctx, user.ID, models.PlaystyleVanilla, models.ModeStandard)
	require.NoError(t, err)
	assert.Equal(t, 0, rank, "restricted accounts do not hold a rank")

	// The restricted account also stops counting against everyone else.
	rank, err = s.GlobalRank(ctx, rival.ID, models.PlaystyleVanilla, models.ModeStandard)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
}

func setPP(t *testing.T, s *GORMStore, userID int64, style models.Playstyle, mode models.GameMode, pp float64) {
	t.Helper()
	err := s.DB().
		Model(&models.UserStats{}).
		Where("user_id = ? AND playstyle = ? AND mode = ?", userID, style, mode).
		Update("pp", pp).Error
	require.NoError(t, err)
}

func TestLeaderboard(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	top := createTestUser(t, s, "lb_top")
	mid := createTestUser(t, s, "lb_mid")
	hidden := createTestUser(t, s, "lb_hidden")

	setPP(t, s, top.ID, models.PlaystyleVanilla, models.ModeStandard, 9000)
	setPP(t, s, mid.ID, models.PlaystyleVanilla, models.ModeStandard, 4000)
	setPP(t, s, hidden.ID, models.PlaystyleVanilla, models.ModeStandard, 9999)
	require.NoError(t, s.UpdateUserPrivileges(ctx, hidden.ID, privileges.UserNormal))

	entries, err := s.GetLeaderboard(ctx, models.PlaystyleVanilla, models.ModeStandard, "", 1, 50)
	require.NoError(t, err)
	require.Len(t, entries, 2, "restricted user must not appear")
	assert.Equal(t, top.ID, entries[0].User.ID)
	assert.Equal(t, 1, entries[0].Stats.GlobalRank)
	assert.Equal(t, mid.ID, entries[1].User.ID)
	assert.Equal(t, 2, entries[1].Stats.GlobalRank)
}

func TestClanLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	owner := createTestUser(t, s, "clan_owner")
	member := createTestUser(t, s, "clan_member")

	clan := &models.Clan{
		Name:    "Night Owls",
		Tag:     "OWL",
		OwnerID: owner.ID,
	}
	require.NoError(t, s.CreateClan(ctx, clan))
	require.NotZero(t, clan.ID)

	// Owner is enrolled automatically
	members, err := s.GetClanMembers(ctx, clan.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.ClanPermOwner, members[0].Perms)

	// Joining twice fails
	require.NoError(t, s.AddClanMember(ctx, clan.ID, member.ID, models.ClanPermMember))
	assert.ErrorIs(t, s.AddClanMember(ctx, clan.ID, member.ID, models.ClanPermMember), models.ErrAlreadyInClan)

	// Owner cannot leave
	assert.ErrorIs(t, s.RemoveClanMember(ctx, clan.ID, owner.ID), models.ErrClanOwnerCantLeave)

	// Member leaves cleanly
	require.NoError(t, s.RemoveClanMember(ctx, clan.ID, member.ID))
	left, err := s.GetUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, left.ClanID)

	// Disband detaches the owner too
	require.NoError(t, s.DeleteClan(ctx, clan.ID))
	_, err = s.GetClan(ctx, clan.ID)
	assert.ErrorIs(t, err, models.ErrClanNotFound)

	freed, err := s.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, freed.ClanID)
}

func TestClanMemberLimit(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	owner := createTestUser(t, s, "limit_owner")
	clan := &models.Clan{
		Name:        "Tiny",
		Tag:         "TNY",
		OwnerID:     owner.ID,
		MemberLimit: 2,
	}
	require.NoError(t, s.CreateClan(ctx, clan))

	second := createTestUser(t, s, "limit_second")
	require.NoError(t, s.AddClanMember(ctx, clan.ID, second.ID, models.ClanPermMember))

	third := createTestUser(t, s, "limit_third")
	assert.ErrorIs(t, s.AddClanMember(ctx, clan.ID, third.ID, models.ClanPermMember), models.ErrClanMemberLimit)
}

func TestFriendships(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a := createTestUser(t, s, "friend_a")
	b := createTestUser(t, s, "friend_b")

	assert.ErrorIs(t, s.AddFriend(ctx, a.ID, a.ID), models.ErrSelfFriendship)

	require.NoError(t, s.AddFriend(ctx, a.ID, b.ID))
	assert.ErrorIs(t, s.AddFriend(ctx, a.ID, b.ID), models.ErrFriendshipExists)

	mutual, err := s.IsFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, mutual, "one-way friendship is not mutual")

	require.NoError(t, s.AddFriend(ctx, b.ID, a.ID))
	mutual, err = s.IsFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, mutual)

	require.NoError(t, s.RemoveFriend(ctx, a.ID, b.ID))
	assert.ErrorIs(t, s.RemoveFriend(ctx, a.ID, b.ID), models.ErrFriendshipNotFound)
}

func TestBeatmapUpsertPreservesFrozenStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	beatmap := &models.Beatmap{
		BeatmapID:    101,
		BeatmapsetID: 11,
		MD5:          "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		SongName:     "xi - Blue Zenith [FOUR DIMENSIONS]",
		Ranked:       models.BeatmapPending,
	}
	require.NoError(t, s.UpsertBeatmap(ctx, beatmap))

	require.NoError(t, s.SetBeatmapRankedStatus(ctx, 101, models.BeatmapLoved, true))

	// A metadata refresh must not clobber the frozen status.
	refresh := &models.Beatmap{
		BeatmapID:    101,
		BeatmapsetID: 11,
		MD5:          "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		SongName:     "xi - Blue Zenith [FOUR DIMENSIONS]",
		Ranked:       models.BeatmapRanked,
	}
	require.NoError(t, s.UpsertBeatmap(ctx, refresh))

	got, err := s.GetBeatmap(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, models.BeatmapLoved, got.Ranked)
	assert.True(t, got.RankedStatusFrozen)
}

func TestBeatmapScoresOnePerUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "score_user")
	md5 := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	require.NoError(t, s.UpsertBeatmap(ctx, &models.Beatmap{
		BeatmapID: 202,
		MD5:       md5,
		Ranked:    models.BeatmapRanked,
	}))

	old := &models.Score{
		BeatmapMD5: md5,
		UserID:     user.ID,
		Playstyle:  models.PlaystyleVanilla,
		Mode:       models.ModeStandard,
		TotalScore: 1000,
		PP:         100,
		Completed:  models.ScorePassed,
		PlayedAt:   time.Now().Add(-time.Hour),
	}
	best := &models.Score{
		BeatmapMD5: md5,
		UserID:     user.ID,
		Playstyle:  models.PlaystyleVanilla,
		Mode:       models.ModeStandard,
		TotalScore: 2000,
		PP:         200,
		Completed:  models.ScorePersonalBest,
		PlayedAt:   time.Now(),
	}
	require.NoError(t, s.DB().Create(old).Error)
	require.NoError(t, s.DB().Create(best).Error)

	scores, err := s.GetBeatmapScores(ctx, md5, models.PlaystyleVanilla, models.ModeStandard, 50)
	require.NoError(t, err)
	require.Len(t, scores, 1, "only the personal best appears")
	assert.Equal(t, best.ID, scores[0].ID)

	bests, err := s.GetUserBestScores(ctx, user.ID, models.PlaystyleVanilla, models.ModeStandard, 1, 50)
	require.NoError(t, err)
	require.Len(t, bests, 1)
	assert.Equal(t, 200.0, bests[0].PP)
}

func TestAuditLogs(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	admin := createTestUser(t, s, "log_admin")
	target := createTestUser(t, s, "log_target")

	require.NoError(t, s.CreateAuditLog(ctx, &models.AuditLog{
		ActorID:  admin.ID,
		TargetID: target.ID,
		Action:   "ban",
		Message:  "multiaccounting",
	}))

	logs, err := s.ListAuditLogs(ctx, 1, 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "ban", logs[0].Action)
}

func TestPing(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
