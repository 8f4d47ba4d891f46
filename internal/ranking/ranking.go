// Package ranking holds the scoring math shared by stats and leaderboard
// code: the score-to-level curve and performance-point weighting.
package ranking

import "math"

const (
	// levelCapScore is the total score required for level 100.
	levelCapScore = 26931190829

	// scorePerLevelAbove100 is the flat per-level cost past level 100.
	scorePerLevelAbove100 = 100000000000
)

// RequiredScoreForLevel returns the total score needed to reach the given
// level. Levels above 100 grow linearly; below that the standard cubic
// curve applies.
func RequiredScoreForLevel(level int) float64 {
	if level <= 0 {
		return 0
	}
	if level > 100 {
		return levelCapScore + scorePerLevelAbove100*float64(level-100)
	}
	n := float64(level)
	return 5000.0/3.0*(4*n*n*n-3*n*n-n) + 1.25*math.Pow(1.8, n-60)
}

// LevelFromScore converts a total score into a fractional level, e.g. 57.34.
func LevelFromScore(score int64) float64 {
	if score <= 0 {
		return 1
	}

	fs := float64(score)
	if fs >= levelCapScore {
		return 100 + (fs-levelCapScore)/scorePerLevelAbove100
	}

	level := 1
	for RequiredScoreForLevel(level+1) <= fs {
		level++
	}

	base := RequiredScoreForLevel(level)
	next := RequiredScoreForLevel(level + 1)
	return float64(level) + (fs-base)/(next-base)
}

// WeightedPP applies the standard 0.95 decay over a pp list sorted in
// descending order. Used for clan totals.
func WeightedPP(pps []float64) float64 {
	total := 0.0
	for i, pp := range pps {
		total += pp * math.Pow(0.95, float64(i))
	}
	return total
}
