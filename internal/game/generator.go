package game

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/models"
)

// Generator builds challenges. chain carries the words accepted so far in
// a word-chain session and is ignored by every other game.
type Generator interface {
	Generate(kind models.GameKind, level int, chain []string) (models.Challenge, error)
}

// RandomGenerator is the production Generator. It is safe for concurrent use.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Generator = (*RandomGenerator)(nil)

// NewGenerator returns a generator seeded from the runtime's random source.
func NewGenerator() *RandomGenerator {
	return NewSeededGenerator(rand.Uint64(), rand.Uint64())
}

// NewSeededGenerator returns a reproducible generator.
func NewSeededGenerator(seed1, seed2 uint64) *RandomGenerator {
	return &RandomGenerator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *RandomGenerator) Generate(kind models.GameKind, level int, chain []string) (models.Challenge, error) {
	if level < 1 {
		level = 1
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		c   models.Challenge
		err error
	)
	switch kind {
	case models.KindFocusFlip:
		c, err = focusFlip(g.rng, level)
	case models.KindColorTrap:
		c, err = colorTrap(g.rng, level)
	case models.KindDotDash:
		c = dotDash(g.rng, level)
	case models.KindSequenceSense:
		c = sequenceSense(g.rng, level)
	case models.KindShapeSorter:
		c, err = shapeSorter(g.rng, level)
	case models.KindWordChain:
		c = wordChain(g.rng, level, chain)
	case models.KindReactionTime:
		c, err = reactionTime(g.rng, level)
	case models.KindMathMaster:
		c = mathMaster(g.rng, level)
	default:
		return models.Challenge{}, fmt.Errorf("%w: unknown game %q", errors.ErrContentGeneration, kind)
	}
	if err != nil {
		var cge *errors.ContentGenerationError
		if errors.As(err, &cge) {
			cge.Kind = string(kind)
			cge.Level = level
		}
		return models.Challenge{}, err
	}

	c.Kind = kind
	c.Level = level
	return c, nil
}

// DrawDistinct picks n distinct values from domain without replacement.
func DrawDistinct(r *rand.Rand, domain []string, n int) ([]string, error) {
	pool := dedupe(domain)
	if n > len(pool) {
		return nil, &errors.ContentGenerationError{Domain: len(pool), Needed: n}
	}
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n], nil
}

// DrawOptions returns correct plus n-1 distinct distractors from domain,
// shuffled.
func DrawOptions(r *rand.Rand, domain []string, correct string, n int) ([]string, error) {
	if n < 1 {
		n = 1
	}
	var rest []string
	for _, v := range dedupe(domain) {
		if v != correct {
			rest = append(rest, v)
		}
	}
	if n-1 > len(rest) {
		return nil, &errors.ContentGenerationError{Domain: len(rest) + 1, Needed: n}
	}
	r.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	out := make([]string, 0, n)
	out = append(out, correct)
	out = append(out, rest[:n-1]...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// between returns a uniform int in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}
