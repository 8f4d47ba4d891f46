// Package models defines the persisted domain entities and the shared
// gameplay enums (game modes, playstyles).
package models

import "fmt"

// GameMode is one of the four osu! rulesets.
type GameMode int

const (
	ModeStandard GameMode = 0
	ModeTaiko    GameMode = 1
	ModeCatch    GameMode = 2
	ModeMania    GameMode = 3
)

// IsValid checks if the mode is one of the four known rulesets.
func (m GameMode) IsValid() bool {
	return m >= ModeStandard && m <= ModeMania
}

func (m GameMode) String() string {
	switch m {
	case ModeStandard:
		return "std"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "ctb"
	case ModeMania:
		return "mania"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Playstyle distinguishes the vanilla, relax and autopilot score spaces.
// Each playstyle has its own stats rows and score rows.
type Playstyle int

const (
	PlaystyleVanilla   Playstyle = 0
	PlaystyleRelax     Playstyle = 1
	PlaystyleAutopilot Playstyle = 2
)

// IsValid checks if the playstyle is recognized.
func (p Playstyle) IsValid() bool {
	return p >= PlaystyleVanilla && p <= PlaystyleAutopilot
}

func (p Playstyle) String() string {
	switch p {
	case PlaystyleVanilla:
		return "vanilla"
	case PlaystyleRelax:
		return "relax"
	case PlaystyleAutopilot:
		return "autopilot"
	default:
		return fmt.Sprintf("playstyle(%d)", int(p))
	}
}

// ScoreCompleted values. Anything below 2 is a failed or aborted play;
// 3 marks the personal best on a map.
const (
	ScoreFailed       = 0
	ScoreExited       = 1
	ScorePassed       = 2
	ScorePersonalBest = 3
)

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&User{},
		&UserStats{},
		&Score{},
		&Beatmap{},
		&Clan{},
		&ClanMember{},
		&Friendship{},
		&ProfileComment{},
		&Badge{},
		&UserBadge{},
		&Achievement{},
		&UserAchievement{},
		&UserHistoryEntry{},
		&AuditLog{},
	}
}
