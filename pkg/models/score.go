package models

import "time"

// Score is one submitted play. Playstyle selects the score space the play
// belongs to; Completed == ScorePersonalBest marks the best play on a map.
type Score struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BeatmapMD5 string    `gorm:"column:beatmap_md5;index;not null;size:32" json:"beatmap_md5"`
	UserID     int64     `gorm:"index;not null" json:"user_id"`
	Playstyle  Playstyle `gorm:"index;not null" json:"playstyle"`
	Mode       GameMode  `gorm:"not null" json:"mode"`
	TotalScore int64     `json:"score"`
	MaxCombo   int       `json:"max_combo"`
	FullCombo  bool      `json:"full_combo"`
	Mods       int       `json:"mods"`
	Count300   int       `json:"count_300"`
	Count100   int       `json:"count_100"`
	Count50    int       `json:"count_50"`
	CountGeki  int       `json:"count_geki"`
	CountKatu  int       `json:"count_katu"`
	CountMiss  int       `json:"count_miss"`
	Accuracy   float64   `json:"accuracy"`
	PP         float64   `gorm:"column:pp;index" json:"pp"`
	Completed  int       `gorm:"index" json:"completed"`
	PlayedAt   time.Time `gorm:"index" json:"played_at"`
}

// TableName returns the table name for Score.
func (Score) TableName() string {
	return "scores"
}

// Rank returns the letter grade for the play. SS and S degrade to their
// hidden variants when HD or FL mods are active.
func (s *Score) Rank() string {
	const (
		modHidden     = 8
		modFlashlight = 1024
	)

	total := s.Count300 + s.Count100 + s.Count50 + s.CountMiss
	if total == 0 {
		return "F"
	}
	if s.Completed < ScorePassed {
		return "F"
	}

	hidden := s.Mods&(modHidden|modFlashlight) != 0
	r300 := float64(s.Count300) / float64(total)
	r50 := float64(s.Count50) / float64(total)

	switch {
	case r300 == 1:
		if hidden {
			return "SSH"
		}
		return "SS"
	case r300 > 0.9 && r50 <= 0.01 && s.CountMiss == 0:
		if hidden {
			return "SH"
		}
		return "S"
	case (r300 > 0.8 && s.CountMiss == 0) || r300 > 0.9:
		return "A"
	case (r300 > 0.7 && s.CountMiss == 0) || r300 > 0.8:
		return "B"
	case r300 > 0.6:
		return "C"
	default:
		return "D"
	}
}
