package models

// GameKind identifies one of the mini-games.
type GameKind string

const (
	KindFocusFlip     GameKind = "focus-flip"
	KindColorTrap     GameKind = "color-trap"
	KindDotDash       GameKind = "dot-dash"
	KindSequenceSense GameKind = "sequence-sense"
	KindShapeSorter   GameKind = "shape-sorter"
	KindWordChain     GameKind = "word-chain"
	KindReactionTime  GameKind = "reaction-time"
	KindMathMaster    GameKind = "math-master"
)

// AllKinds lists every game kind in display order.
var AllKinds = []GameKind{
	KindFocusFlip,
	KindColorTrap,
	KindDotDash,
	KindSequenceSense,
	KindShapeSorter,
	KindWordChain,
	KindReactionTime,
	KindMathMaster,
}

// Valid reports whether k names a known game.
func (k GameKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k GameKind) String() string { return string(k) }

// Difficulty tags a record with the preset the player picked.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

// ValidDifficulty reports whether tag is one of the known presets.
func ValidDifficulty(tag string) bool {
	switch tag {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}
