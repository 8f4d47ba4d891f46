// Package privileges defines the user privilege bitmask and the helpers
// the rest of the codebase uses to interpret it.
package privileges

// Privileges is a bitmask attached to every user row.
type Privileges int64

const (
	UserPublic              Privileges = 1 << 0 // profile visible on listings and leaderboards
	UserNormal              Privileges = 1 << 1 // account may log in
	UserDonor               Privileges = 1 << 2
	AdminAccessPanel        Privileges = 1 << 3
	AdminManageUsers        Privileges = 1 << 4
	AdminBanUsers           Privileges = 1 << 5
	AdminSilenceUsers       Privileges = 1 << 6
	AdminWipeUsers          Privileges = 1 << 7
	AdminManageBeatmaps     Privileges = 1 << 8
	AdminManageServers      Privileges = 1 << 9
	AdminManageSettings     Privileges = 1 << 10
	AdminManageBetaKeys     Privileges = 1 << 11
	AdminManageReports      Privileges = 1 << 12
	AdminManageDocs         Privileges = 1 << 13
	AdminManageBadges       Privileges = 1 << 14
	AdminViewLogs           Privileges = 1 << 15
	AdminManagePrivileges   Privileges = 1 << 16
	AdminSendAlerts         Privileges = 1 << 17
	AdminChatMod            Privileges = 1 << 18
	AdminKickUsers          Privileges = 1 << 19
	UserPendingVerification Privileges = 1 << 20
	UserTournamentStaff     Privileges = 1 << 21
)

// Default is the privilege set assigned to a freshly registered account.
// The verification bit is cleared on first successful login.
const Default = UserPublic | UserNormal | UserPendingVerification

// Has reports whether all bits in mask are set.
func (p Privileges) Has(mask Privileges) bool {
	return p&mask == mask
}

// HasAny reports whether any bit in mask is set.
func (p Privileges) HasAny(mask Privileges) bool {
	return p&mask != 0
}

// IsBanned reports whether the account can neither log in nor be seen.
func (p Privileges) IsBanned() bool {
	return p&(UserPublic|UserNormal) == 0
}

// IsRestricted reports whether the account may log in but is hidden from
// public listings.
func (p Privileges) IsRestricted() bool {
	return p&UserNormal != 0 && p&UserPublic == 0
}

// IsPending reports whether the account has not completed verification.
func (p Privileges) IsPending() bool {
	return p&UserPendingVerification != 0
}

// Ban removes both the public and login bits.
func (p Privileges) Ban() Privileges {
	return p &^ (UserPublic | UserNormal)
}

// Restrict removes the public bit, keeping login access.
func (p Privileges) Restrict() Privileges {
	return p &^ UserPublic
}

// Unrestrict restores both the public and login bits.
func (p Privileges) Unrestrict() Privileges {
	return p | UserPublic | UserNormal
}
