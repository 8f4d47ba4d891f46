package models

import "errors"

// Common errors for domain operations.
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateUser  = errors.New("user already exists")
	ErrUserBanned     = errors.New("user is banned")
	ErrUserRestricted = errors.New("user is restricted")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Stats errors
	ErrStatsNotFound = errors.New("stats not found")

	// Score errors
	ErrScoreNotFound = errors.New("score not found")

	// Beatmap errors
	ErrBeatmapNotFound = errors.New("beatmap not found")

	// Clan errors
	ErrClanNotFound       = errors.New("clan not found")
	ErrDuplicateClan      = errors.New("clan name or tag already taken")
	ErrClanMemberLimit    = errors.New("clan member limit reached")
	ErrAlreadyInClan      = errors.New("user already belongs to a clan")
	ErrNotClanMember      = errors.New("user is not a member of the clan")
	ErrClanOwnerCantLeave = errors.New("clan owner must disband instead of leaving")

	// Social errors
	ErrFriendshipExists   = errors.New("friendship already exists")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrSelfFriendship     = errors.New("cannot friend yourself")

	// Badge / achievement errors
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrAchievementNotFound = errors.New("achievement not found")
)
