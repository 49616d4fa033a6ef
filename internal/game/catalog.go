package game

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// TimeBonusMode selects how the time component of a score is computed.
type TimeBonusMode string

const (
	TimeBonusNone      TimeBonusMode = "none"
	TimeBonusCountdown TimeBonusMode = "countdown"
	TimeBonusLatency   TimeBonusMode = "latency"
)

// LatencyTier awards Points when the response is faster than UnderMillis.
type LatencyTier struct {
	UnderMillis int64 `yaml:"under_ms" validate:"gt=0"`
	Points      int   `yaml:"points" validate:"gte=0"`
}

// Constants parameterize scoring and progression for one game.
type Constants struct {
	Kind  models.GameKind `yaml:"kind" validate:"required"`
	Title string          `yaml:"title"`

	BasePoints        float64       `yaml:"base_points" validate:"gt=0"`
	LevelStep         float64       `yaml:"level_step" validate:"gte=0"`
	StreakDivisor     int           `yaml:"streak_divisor" validate:"gte=1"`
	StreakUnit        int           `yaml:"streak_unit" validate:"gte=0"`
	TimeBonus         TimeBonusMode `yaml:"time_bonus" validate:"oneof=none countdown latency"`
	TimeRate          float64       `yaml:"time_rate" validate:"gte=0"`
	LatencyTiers      []LatencyTier `yaml:"latency_tiers" validate:"dive"`
	HintPenaltyFactor float64       `yaml:"hint_penalty_factor" validate:"gt=0,lte=1"`

	StartingLives int `yaml:"starting_lives" validate:"gte=1"`
	// LevelUpStreak of zero disables levelling.
	LevelUpStreak int `yaml:"level_up_streak" validate:"gte=0"`
	// MaxLevel of zero means unbounded.
	MaxLevel          int   `yaml:"max_level" validate:"gte=0"`
	TimeLimitSeconds  int   `yaml:"time_limit_seconds" validate:"gte=0"`
	TotalRounds       int   `yaml:"total_rounds" validate:"gte=0"`
	ShowsStimulus     bool  `yaml:"shows_stimulus"`
	MinResponseMillis int64 `yaml:"min_response_ms" validate:"gte=0"`
}

// Timed reports whether the game runs against a countdown.
func (c Constants) Timed() bool { return c.TimeLimitSeconds > 0 }

// RoundBased reports whether the game ends after a fixed number of challenges.
func (c Constants) RoundBased() bool { return c.TotalRounds > 0 }

// Catalog maps every game kind to its constants.
type Catalog struct {
	games map[models.GameKind]Constants
}

type catalogFile struct {
	Games []Constants `yaml:"games"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in game catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog returns the built-in catalog with any entries from the YAML
// file at path laid over it. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	base := DefaultCatalog()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game catalog %s: %w", path, err)
	}
	overlay, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse game catalog %s: %w", path, err)
	}
	for kind, c := range overlay.games {
		base.games[kind] = c
	}
	return base, nil
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	c := &Catalog{games: make(map[models.GameKind]Constants, len(f.Games))}
	for i, g := range f.Games {
		if err := validation.Struct(g); err != nil {
			return nil, fmt.Errorf("game %d (%s): %w", i, g.Kind, err)
		}
		if !g.Kind.Valid() {
			return nil, fmt.Errorf("game %d: unknown kind %q", i, g.Kind)
		}
		if _, dup := c.games[g.Kind]; dup {
			return nil, fmt.Errorf("game %d: duplicate kind %q", i, g.Kind)
		}
		if g.TimeBonus == TimeBonusLatency && len(g.LatencyTiers) == 0 {
			return nil, fmt.Errorf("game %s: latency bonus needs at least one tier", g.Kind)
		}
		sort.Slice(g.LatencyTiers, func(a, b int) bool {
			return g.LatencyTiers[a].UnderMillis < g.LatencyTiers[b].UnderMillis
		})
		c.games[g.Kind] = g
	}
	return c, nil
}

// Get returns the constants for kind.
func (c *Catalog) Get(kind models.GameKind) (Constants, bool) {
	g, ok := c.games[kind]
	return g, ok
}

// Kinds lists the configured games in display order.
func (c *Catalog) Kinds() []models.GameKind {
	out := make([]models.GameKind, 0, len(c.games))
	for _, k := range models.AllKinds {
		if _, ok := c.games[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
