package game

import (
	"strconv"
	"strings"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/models"
)

// Evaluate reports whether response answers c. Malformed responses are
// simply wrong.
func Evaluate(c models.Challenge, response []string) bool {
	ok, _ := Check(c, response)
	return ok
}

// Check is Evaluate plus the reason a response could not be judged.
// The error is always errors.ErrInvalidResponseShape and the bool is
// then false.
func Check(c models.Challenge, response []string) (bool, error) {
	switch c.Kind {
	case models.KindDotDash:
		return sameSequence(c.Answer, response), nil
	case models.KindColorTrap, models.KindShapeSorter, models.KindReactionTime:
		return singleChoice(c.Answer, response)
	case models.KindSequenceSense, models.KindMathMaster:
		return numeric(c.Answer, response)
	case models.KindWordChain:
		return chainWord(c, response)
	case models.KindFocusFlip:
		return matchingPair(c, response)
	}
	return false, errors.ErrInvalidResponseShape
}

// Judge evaluates a timed response. Answers faster than the game's
// MinResponseMillis count as false starts.
func Judge(c models.Challenge, response []string, responseMillis int64, k Constants) bool {
	if k.MinResponseMillis > 0 && responseMillis < k.MinResponseMillis {
		return false
	}
	return Evaluate(c, response)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameSequence(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if normalize(want[i]) != normalize(got[i]) {
			return false
		}
	}
	return true
}

func singleChoice(want, got []string) (bool, error) {
	if len(got) != 1 || len(want) != 1 {
		return false, errors.ErrInvalidResponseShape
	}
	return normalize(want[0]) == normalize(got[0]), nil
}

func numeric(want, got []string) (bool, error) {
	if len(got) != 1 || len(want) != 1 {
		return false, errors.ErrInvalidResponseShape
	}
	g, err := strconv.Atoi(strings.TrimSpace(got[0]))
	if err != nil {
		return false, errors.ErrInvalidResponseShape
	}
	w, err := strconv.Atoi(want[0])
	if err != nil {
		return false, errors.ErrInvalidResponseShape
	}
	return g == w, nil
}

func chainWord(c models.Challenge, got []string) (bool, error) {
	if len(got) != 1 {
		return false, errors.ErrInvalidResponseShape
	}
	word := normalize(got[0])
	if !isLetters(word) {
		return false, errors.ErrInvalidResponseShape
	}
	minLen := c.MinLength
	if minLen < 3 {
		minLen = 3
	}
	if len(word) < minLen {
		return false, nil
	}
	current := normalize(c.Prompt)
	if current == "" || word[0] != current[len(current)-1] {
		return false, nil
	}
	for _, used := range c.Used {
		if normalize(used) == word {
			return false, nil
		}
	}
	return true, nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func matchingPair(c models.Challenge, got []string) (bool, error) {
	if len(got) != 2 {
		return false, errors.ErrInvalidResponseShape
	}
	a, errA := strconv.Atoi(strings.TrimSpace(got[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(got[1]))
	if errA != nil || errB != nil {
		return false, errors.ErrInvalidResponseShape
	}
	if a == b || a < 0 || b < 0 || a >= len(c.Stimulus) || b >= len(c.Stimulus) {
		return false, nil
	}
	return c.Stimulus[a] == c.Prompt && c.Stimulus[b] == c.Prompt, nil
}
