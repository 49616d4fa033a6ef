package game

import (
	"math"
	"time"
)

// epsilon absorbs binary float error before flooring, so 10*1.2 counts as 12.
const epsilon = 1e-9

// LevelMultiplier is 1 + (level-1)*step.
func LevelMultiplier(level int, step float64) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*step
}

// StreakBonus pays StreakUnit for every full StreakDivisor answers in a row.
func StreakBonus(streak int, c Constants) int {
	if streak <= 0 || c.StreakDivisor <= 0 {
		return 0
	}
	return (streak / c.StreakDivisor) * c.StreakUnit
}

// TimeBonus converts t into bonus points. For countdown games t is the time
// left on the clock; for latency games it is the response time.
func TimeBonus(t time.Duration, c Constants) int {
	if t < 0 {
		t = 0
	}
	switch c.TimeBonus {
	case TimeBonusCountdown:
		return int(math.Floor(t.Seconds()*c.TimeRate + epsilon))
	case TimeBonusLatency:
		ms := t.Milliseconds()
		for _, tier := range c.LatencyTiers {
			if ms < tier.UnderMillis {
				return tier.Points
			}
		}
	}
	return 0
}

// Points scores one correct answer. The result is never below 1, and a
// used hint can only lower it.
func Points(level, streak int, t time.Duration, hintUsed bool, c Constants) int {
	raw := c.BasePoints*LevelMultiplier(level, c.LevelStep) +
		float64(StreakBonus(streak, c)) +
		float64(TimeBonus(t, c))

	points := 1
	if !math.IsNaN(raw) && raw >= 1 {
		points = int(math.Floor(raw + epsilon))
	}

	if hintUsed {
		factor := c.HintPenaltyFactor
		if factor <= 0 || factor > 1 {
			factor = 1
		}
		points = int(math.Floor(float64(points)*factor + epsilon))
		if points < 1 {
			points = 1
		}
	}
	return points
}
