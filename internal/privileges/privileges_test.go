package privileges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanClearsPublicAndNormal(t *testing.T) {
	p := UserPublic | UserNormal | UserDonor
	banned := p.Ban()

	assert.True(t, banned.IsBanned())
	assert.False(t, banned.Has(UserPublic))
	assert.False(t, banned.Has(UserNormal))
	assert.True(t, banned.Has(UserDonor), "unrelated bits survive a ban")
}

func TestRestrictKeepsLogin(t *testing.T) {
	p := (UserPublic | UserNormal).Restrict()

	assert.True(t, p.IsRestricted())
	assert.False(t, p.IsBanned())
	assert.True(t, p.Has(UserNormal))
}

func TestUnrestrictRestoresBoth(t *testing.T) {
	p := (UserPublic | UserNormal).Ban().Unrestrict()

	assert.False(t, p.IsBanned())
	assert.False(t, p.IsRestricted())
	assert.True(t, p.Has(UserPublic|UserNormal))
}

func TestDefaultIsPending(t *testing.T) {
	assert.True(t, Default.IsPending())
	assert.False(t, Default.IsBanned())
	assert.False(t, Default.IsRestricted())
}

func TestHasAny(t *testing.T) {
	p := AdminBanUsers | AdminSilenceUsers
	assert.True(t, p.HasAny(AdminBanUsers|AdminManageBadges))
	assert.False(t, p.HasAny(AdminManageBeatmaps))
}
