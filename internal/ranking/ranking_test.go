package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromScoreFloor(t *testing.T) {
	assert.Equal(t, 1.0, LevelFromScore(0))
	assert.Equal(t, 1.0, LevelFromScore(-5))
}

func TestLevelFromScoreMonotonic(t *testing.T) {
	prev := 0.0
	for _, score := range []int64{1, 10_000, 1_000_000, 100_000_000, 5_000_000_000, 20_000_000_000} {
		level := LevelFromScore(score)
		assert.Greater(t, level, prev, "score %d", score)
		prev = level
	}
}

func TestLevelFromScoreAboveCap(t *testing.T) {
	assert.InDelta(t, 100.0, LevelFromScore(26931190829), 0.001)
	assert.InDelta(t, 101.0, LevelFromScore(26931190829+100000000000), 0.001)
}

func TestRequiredScoreForLevelEdges(t *testing.T) {
	assert.Equal(t, 0.0, RequiredScoreForLevel(0))
	assert.Greater(t, RequiredScoreForLevel(2), RequiredScoreForLevel(1))
	assert.Equal(t, RequiredScoreForLevel(101)-RequiredScoreForLevel(102), -1.0e11)
}

func TestWeightedPP(t *testing.T) {
	assert.Equal(t, 0.0, WeightedPP(nil))
	assert.InDelta(t, 100.0, WeightedPP([]float64{100}), 1e-9)
	// 100 + 50*0.95 = 147.5
	assert.InDelta(t, 147.5, WeightedPP([]float64{100, 50}), 1e-9)
}
