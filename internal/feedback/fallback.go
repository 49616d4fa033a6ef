package feedback

import (
	"fmt"
	"math"

	"github.com/vytor/brainplay/internal/models"
)

var skillLines = map[models.GameKind]string{
	models.KindFocusFlip:     "Your memory skills are developing nicely!",
	models.KindDotDash:       "Your pattern memory is getting sharper!",
	models.KindColorTrap:     "Great impulse control practice!",
	models.KindSequenceSense: "Excellent pattern recognition!",
	models.KindShapeSorter:   "Your visual coordination is improving!",
	models.KindWordChain:     "Your vocabulary is growing with every word!",
	models.KindReactionTime:  "Your reaction time is getting faster!",
	models.KindMathMaster:    "Your number skills are getting stronger!",
}

// Fallback is the local text used whenever remote feedback is unavailable.
// It depends only on its arguments.
func Fallback(rec models.SessionRecord, recent []models.SessionRecord) string {
	acc := int(math.Round(rec.Accuracy * 100))
	text := fmt.Sprintf("Great job! You scored %d points with %d%% accuracy!", rec.FinalScore, acc)

	if len(recent) > 0 {
		last := recent[len(recent)-1].FinalScore
		if rec.FinalScore > last {
			text += fmt.Sprintf(" You improved from your last score of %d!", last)
		}
	}
	if line, ok := skillLines[rec.GameKind]; ok {
		text += " " + line
	}
	return text
}
