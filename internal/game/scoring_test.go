package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/brainplay/internal/game"
	"github.com/vytor/brainplay/internal/models"
)

func constantsFor(t *testing.T, kind models.GameKind) game.Constants {
	t.Helper()
	c, ok := game.DefaultCatalog().Get(kind)
	require.True(t, ok, "missing constants for %s", kind)
	return c
}

func TestPoints_ColorTrapExamples(t *testing.T) {
	c := constantsFor(t, models.KindColorTrap)

	tests := []struct {
		name   string
		level  int
		streak int
		left   time.Duration
		want   int
	}{
		{"fresh start with full clock", 1, 0, 30 * time.Second, 40},
		{"streak of six", 1, 6, 30 * time.Second, 44},
		{"streak below divisor", 1, 2, 30 * time.Second, 40},
		{"level two multiplier", 2, 0, 0, 12},
		{"fractional seconds are floored", 1, 0, 2500 * time.Millisecond, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.Points(tt.level, tt.streak, tt.left, false, c))
		})
	}
}

func TestPoints_HintPenalty(t *testing.T) {
	c := constantsFor(t, models.KindSequenceSense)

	plain := game.Points(1, 0, 10*time.Second, false, c)
	hinted := game.Points(1, 0, 10*time.Second, true, c)

	assert.Equal(t, 25, plain)
	assert.Equal(t, 12, hinted)
}

func TestPoints_LatencyTiers(t *testing.T) {
	c := constantsFor(t, models.KindReactionTime)

	assert.Equal(t, 60, game.Points(1, 0, 150*time.Millisecond, false, c))
	assert.Equal(t, 30, game.Points(1, 0, 300*time.Millisecond, false, c))
	assert.Equal(t, 10, game.Points(1, 0, 800*time.Millisecond, false, c))
}

func TestPoints_NeverBelowOne(t *testing.T) {
	tiny := game.Constants{
		BasePoints:        0.001,
		StreakDivisor:     1,
		TimeBonus:         game.TimeBonusNone,
		HintPenaltyFactor: 0.01,
	}
	assert.Equal(t, 1, game.Points(1, 0, 0, false, tiny))
	assert.Equal(t, 1, game.Points(1, 0, 0, true, tiny))
	assert.Equal(t, 1, game.Points(-4, -2, -time.Second, true, tiny))
}

func TestPoints_PropertiesAcrossCatalog(t *testing.T) {
	timings := []time.Duration{0, 150 * time.Millisecond, 450 * time.Millisecond, 2 * time.Second, 45 * time.Second}
	for _, kind := range models.AllKinds {
		c := constantsFor(t, kind)
		for level := 1; level <= 12; level++ {
			for streak := 0; streak <= 20; streak++ {
				for _, timing := range timings {
					plain := game.Points(level, streak, timing, false, c)
					hinted := game.Points(level, streak, timing, true, c)
					require.GreaterOrEqual(t, plain, 1, "%s level=%d streak=%d", kind, level, streak)
					require.GreaterOrEqual(t, hinted, 1)
					require.LessOrEqual(t, hinted, plain)
				}
			}
		}
	}
}

func TestStreakBonus(t *testing.T) {
	c := game.Constants{StreakDivisor: 3, StreakUnit: 2}
	assert.Equal(t, 0, game.StreakBonus(0, c))
	assert.Equal(t, 0, game.StreakBonus(2, c))
	assert.Equal(t, 2, game.StreakBonus(3, c))
	assert.Equal(t, 4, game.StreakBonus(7, c))
}

func TestLevelMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0, game.LevelMultiplier(1, 0.2), 1e-9)
	assert.InDelta(t, 1.4, game.LevelMultiplier(3, 0.2), 1e-9)
	assert.InDelta(t, 1.0, game.LevelMultiplier(0, 0.2), 1e-9)
}
