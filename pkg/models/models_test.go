package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cookiezi", "cookiezi"},
		{"White Cat", "white_cat"},
		{"  Mixed Case Name ", "mixed_case_name"},
		{"already_safe", "already_safe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeName(tt.in), tt.in)
	}
}

func TestUserIsSilenced(t *testing.T) {
	now := time.Now()

	u := &User{}
	assert.False(t, u.IsSilenced(now))

	past := now.Add(-time.Hour)
	u.SilenceEnd = &past
	assert.False(t, u.IsSilenced(now))

	future := now.Add(time.Hour)
	u.SilenceEnd = &future
	assert.True(t, u.IsSilenced(now))
}

func TestGameModeValidity(t *testing.T) {
	assert.True(t, ModeStandard.IsValid())
	assert.True(t, ModeMania.IsValid())
	assert.False(t, GameMode(4).IsValid())
	assert.False(t, GameMode(-1).IsValid())
	assert.Equal(t, "taiko", ModeTaiko.String())
}

func TestPlaystyleValidity(t *testing.T) {
	assert.True(t, PlaystyleVanilla.IsValid())
	assert.True(t, PlaystyleAutopilot.IsValid())
	assert.False(t, Playstyle(3).IsValid())
	assert.Equal(t, "relax", PlaystyleRelax.String())
}

func TestScoreRank(t *testing.T) {
	tests := []struct {
		name  string
		score Score
		want  string
	}{
		{
			name:  "failed play",
			score: Score{Count300: 100, Completed: ScoreFailed},
			want:  "F",
		},
		{
			name:  "perfect",
			score: Score{Count300: 100, Completed: ScorePersonalBest},
			want:  "SS",
		},
		{
			name:  "perfect hidden",
			score: Score{Count300: 100, Mods: 8, Completed: ScorePersonalBest},
			want:  "SSH",
		},
		{
			name:  "s rank",
			score: Score{Count300: 95, Count100: 5, Completed: ScorePassed},
			want:  "S",
		},
		{
			name:  "a rank with misses",
			score: Score{Count300: 92, Count100: 6, CountMiss: 2, Completed: ScorePassed},
			want:  "A",
		},
		{
			name:  "no hits",
			score: Score{},
			want:  "F",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.score.Rank())
		})
	}
}

func TestBeatmapDifficulty(t *testing.T) {
	b := &Beatmap{
		DifficultyStandard: 5.5,
		DifficultyTaiko:    3.2,
		DifficultyCatch:    4.1,
		DifficultyMania:    2.7,
	}
	assert.Equal(t, 5.5, b.Difficulty(ModeStandard))
	assert.Equal(t, 3.2, b.Difficulty(ModeTaiko))
	assert.Equal(t, 4.1, b.Difficulty(ModeCatch))
	assert.Equal(t, 2.7, b.Difficulty(ModeMania))
}

func TestAllModelsCoversSchema(t *testing.T) {
	assert.Len(t, AllModels(), 14)
}
