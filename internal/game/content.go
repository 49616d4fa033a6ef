package game

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/vytor/brainplay/internal/models"
)

var colors = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// ColorTrapOptions is the number of answer buttons at level.
func ColorTrapOptions(level int) int {
	return min(4+(level-1)/3, len(colors))
}

func colorTrap(r *rand.Rand, level int) (models.Challenge, error) {
	word := pick(r, colors)
	ink := pick(r, colors)
	// Past the first level the word and ink always disagree.
	for level > 1 && ink == word {
		ink = pick(r, colors)
	}
	n := ColorTrapOptions(level)
	opts, err := DrawOptions(r, colors, ink, n)
	if err != nil {
		return models.Challenge{}, err
	}
	return models.Challenge{
		Prompt:   word,
		Stimulus: []string{word, ink},
		Options:  opts,
		Answer:   []string{ink},
		Hint:     "Ignore what the word says and name the ink color",
		Metric:   models.Metric{Options: n},
	}, nil
}

// PatternLength is the number of symbols in a dot-dash pattern.
func PatternLength(level int) int {
	return min(3+level/2, 8)
}

func dotDash(r *rand.Rand, level int) models.Challenge {
	n := PatternLength(level)
	pattern := make([]string, n)
	for i := range pattern {
		if r.IntN(2) == 0 {
			pattern[i] = "dot"
		} else {
			pattern[i] = "dash"
		}
	}
	return models.Challenge{
		Prompt:   "Repeat the pattern",
		Stimulus: pattern,
		Answer:   append([]string(nil), pattern...),
		Hint:     "It starts with a " + pattern[0],
		Metric:   models.Metric{Length: n},
	}
}

// Sequence families in unlock order.
var sequenceTypes = []string{"arithmetic", "geometric", "square", "fibonacci", "prime", "alternating"}

var primes = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

// SequenceLength is the number of visible terms.
func SequenceLength(level int) int {
	return min(5+level/4, 7)
}

// SequenceTypes lists the families available at level.
func SequenceTypes(level int) []string {
	return sequenceTypes[:min(max(level, 1), len(sequenceTypes))]
}

func sequenceSense(r *rand.Rand, level int) models.Challenge {
	n := SequenceLength(level)
	types := SequenceTypes(level)
	kind := types[r.IntN(len(types))]

	terms := make([]int, n+1)
	var hint string
	switch kind {
	case "arithmetic":
		start, step := between(r, 1, 10), between(r, 1, 3+level)
		for i := range terms {
			terms[i] = start + i*step
		}
		hint = "Each number goes up by the same amount"
	case "geometric":
		start, ratio := between(r, 1, 3), between(r, 2, 3)
		terms[0] = start
		for i := 1; i < len(terms); i++ {
			terms[i] = terms[i-1] * ratio
		}
		hint = "Each number is multiplied by the same amount"
	case "square":
		offset := between(r, 1, 5)
		for i := range terms {
			terms[i] = (i + offset) * (i + offset)
		}
		hint = "Think about numbers times themselves"
	case "fibonacci":
		terms[0], terms[1] = between(r, 1, 3), between(r, 1, 3)
		for i := 2; i < len(terms); i++ {
			terms[i] = terms[i-1] + terms[i-2]
		}
		hint = "Add the two numbers before"
	case "prime":
		start := r.IntN(3)
		for i := range terms {
			terms[i] = primes[start+i]
		}
		hint = "These numbers can only be divided by 1 and themselves"
	case "alternating":
		start, p, q := between(r, 1, 10), between(r, 1, 5), between(r, 1, 5)
		terms[0] = start
		for i := 1; i < len(terms); i++ {
			if i%2 == 1 {
				terms[i] = terms[i-1] + p
			} else {
				terms[i] = terms[i-1] + q
			}
		}
		hint = "Two different steps take turns"
	}

	shown := make([]string, n)
	for i := 0; i < n; i++ {
		shown[i] = strconv.Itoa(terms[i])
	}
	return models.Challenge{
		Prompt:   "What comes next?",
		Stimulus: shown,
		Answer:   []string{strconv.Itoa(terms[n])},
		Hint:     hint,
		Metric:   models.Metric{Length: n, Operators: len(types)},
	}
}

var (
	shapeTypes = []string{"circle", "square", "triangle", "star", "heart", "diamond"}
	shapeSizes = []string{"medium", "small", "large"}
)

// ShapeCount is the number of shapes on screen.
func ShapeCount(level int) int {
	switch {
	case level <= 1:
		return 4
	case level == 2:
		return 6
	case level == 3:
		return 8
	case level == 4:
		return 10
	}
	return 12
}

func shapeDomain(level int) []string {
	types := shapeTypes[:min(1+level, len(shapeTypes))]
	palette := colors[:min(2+(level+1)/2, len(colors))]
	sizes := shapeSizes[:min(1+(level-1)/2, len(shapeSizes))]

	out := make([]string, 0, len(types)*len(palette)*len(sizes))
	for _, s := range sizes {
		for _, c := range palette {
			for _, t := range types {
				out = append(out, s+" "+c+" "+t)
			}
		}
	}
	return out
}

func shapeSorter(r *rand.Rand, level int) (models.Challenge, error) {
	domain := shapeDomain(level)
	target := pick(r, domain)
	n := ShapeCount(level)
	opts, err := DrawOptions(r, domain, target, n)
	if err != nil {
		return models.Challenge{}, err
	}
	color := strings.Fields(target)[1]
	return models.Challenge{
		Prompt:  "Find the " + target,
		Options: opts,
		Answer:  []string{target},
		Hint:    "Look at the " + color + " ones",
		Metric:  models.Metric{Options: n},
	}, nil
}

var starterWords = map[int][]string{
	1: {"cat", "dog", "sun", "hat", "pen", "cup"},
	2: {"apple", "house", "tiger", "bread", "chair"},
	3: {"garden", "rabbit", "pencil", "window", "basket"},
	4: {"elephant", "umbrella", "dinosaur", "mountain", "airplane"},
	5: {"butterfly", "telescope", "adventure", "chocolate", "lighthouse"},
}

// WordMinLength is the shortest accepted word at level.
func WordMinLength(level int) int {
	return min(3+(level-1)/3, 6)
}

func wordChain(r *rand.Rand, level int, chain []string) models.Challenge {
	used := append([]string(nil), chain...)
	if len(used) == 0 {
		used = append(used, pick(r, starterWords[min(level, len(starterWords))]))
	}
	current := used[len(used)-1]
	last := current[len(current)-1:]
	minLen := WordMinLength(level)
	return models.Challenge{
		Prompt:    current,
		Used:      used,
		MinLength: minLen,
		Hint:      fmt.Sprintf("Think of a word that starts with %q", last),
		Metric:    models.Metric{Length: minLen},
	}
}

var cardSymbols = []string{
	"star", "moon", "sun", "cloud", "tree", "flower", "apple", "fish",
	"cat", "dog", "bird", "car", "boat", "ball", "kite", "drum",
}

// BoardSize is the number of cards dealt at level.
func BoardSize(level int) int {
	return min(8+(level-1)*2, 16)
}

func focusFlip(r *rand.Rand, level int) (models.Challenge, error) {
	n := BoardSize(level)
	symbols, err := DrawDistinct(r, cardSymbols, n/2)
	if err != nil {
		return models.Challenge{}, err
	}
	board := make([]string, 0, n)
	board = append(board, symbols...)
	board = append(board, symbols...)
	r.Shuffle(len(board), func(i, j int) { board[i], board[j] = board[j], board[i] })

	target := symbols[r.IntN(len(symbols))]
	var positions []string
	for i, s := range board {
		if s == target {
			positions = append(positions, strconv.Itoa(i))
		}
	}
	return models.Challenge{
		Prompt:   target,
		Stimulus: board,
		Answer:   positions,
		Hint:     "One of them is card " + positions[0],
		Metric:   models.Metric{Options: n},
	}, nil
}

// SignalButtons is the number of color buttons in reaction-time.
func SignalButtons(level int) int {
	return min(2+(level-1)/2, len(colors))
}

func reactionTime(r *rand.Rand, level int) (models.Challenge, error) {
	signal := pick(r, colors)
	n := SignalButtons(level)
	opts, err := DrawOptions(r, colors, signal, n)
	if err != nil {
		return models.Challenge{}, err
	}
	return models.Challenge{
		Prompt:      "Tap the matching color as soon as the signal lights up",
		Stimulus:    []string{signal},
		Options:     opts,
		Answer:      []string{signal},
		DelayMillis: int64(between(r, 1000, 3000)),
		Metric:      models.Metric{Options: n},
	}, nil
}

// MathRange is the largest operand for addition and subtraction.
func MathRange(level int) int {
	switch {
	case level <= 1:
		return 20
	case level == 2:
		return 50
	case level == 3:
		return 100
	}
	return min(100+50*(level-3), 1000)
}

var mathOperators = []string{"+", "-", "×", "÷"}

// MathOperators lists the operators available at level.
func MathOperators(level int) []string {
	return mathOperators[:min(max(level, 1), len(mathOperators))]
}

func mathMaster(r *rand.Rand, level int) models.Challenge {
	ops := MathOperators(level)
	op := ops[r.IntN(len(ops))]
	limit := MathRange(level)
	factor := min(5+2*level, 25)

	var a, b, answer int
	var hint string
	switch op {
	case "+":
		a, b = between(r, 1, limit), between(r, 1, limit)
		answer = a + b
		hint = "Start from the bigger number and count up"
	case "-":
		a = between(r, 1, limit)
		b = between(r, 1, a)
		answer = a - b
		hint = "Count back from the first number"
	case "×":
		a, b = between(r, 1, factor), between(r, 1, factor)
		answer = a * b
		hint = fmt.Sprintf("Add %d to itself %d times", a, b)
	case "÷":
		b = between(r, 2, 10)
		answer = between(r, 1, factor)
		a = b * answer
		hint = fmt.Sprintf("How many %ds make %d?", b, a)
	}
	return models.Challenge{
		Prompt: fmt.Sprintf("%d %s %d", a, op, b),
		Answer: []string{strconv.Itoa(answer)},
		Hint:   hint,
		Metric: models.Metric{Range: limit, Operators: len(ops)},
	}
}
