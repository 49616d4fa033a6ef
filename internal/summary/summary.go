// Package summary folds finished sessions into records and records into
// per-game history statistics. Everything here is pure.
package summary

import (
	"math"
	"time"

	"github.com/vytor/brainplay/internal/models"
)

// Ratings, best first.
const (
	RatingExcellent     = "excellent"
	RatingGood          = "good"
	RatingFair          = "fair"
	RatingNeedsPractice = "needs_practice"
)

// Metadata keys written by Summarize.
const (
	MetaCorrect        = "correct"
	MetaAttempts       = "attempts"
	MetaBestStreak     = "best_streak"
	MetaHintsUsed      = "hints_used"
	MetaAvgResponseMs  = "avg_response_ms"
	MetaLivesRemaining = "lives_remaining"
	MetaRoundsPlayed   = "rounds_played"
	MetaChainLength    = "chain_length"
)

// ImprovementWindow is the number of records averaged at each end of the
// history. Improvement needs two full windows.
const ImprovementWindow = 3

// Input is everything Summarize needs about a finished session.
type Input struct {
	SessionID  string
	ProfileID  int64
	Kind       models.GameKind
	Difficulty string
	State      models.SessionState
}

// Accuracy is correct/total, or 0 without attempts.
func Accuracy(events []models.AnswerEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	correct := 0
	for _, e := range events {
		if e.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(events))
}

// BestStreak is the longest run of consecutive correct answers.
func BestStreak(events []models.AnswerEvent) int {
	best, run := 0, 0
	for _, e := range events {
		if !e.Correct {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// AverageResponseMillis is the mean response time, rounded, or 0 without
// attempts.
func AverageResponseMillis(events []models.AnswerEvent) int {
	if len(events) == 0 {
		return 0
	}
	var total int64
	for _, e := range events {
		total += e.ResponseTimeMillis
	}
	return int(math.Round(float64(total) / float64(len(events))))
}

// Rating grades a session on accuracy (0..1) and score, capping the score
// contribution at 1000 points.
func Rating(accuracy float64, score int) string {
	normalized := math.Min(float64(score)/1000, 1)
	if normalized < 0 {
		normalized = 0
	}
	overall := accuracy*0.7 + normalized*0.3
	switch {
	case overall >= 0.9:
		return RatingExcellent
	case overall >= 0.7:
		return RatingGood
	case overall >= 0.6:
		return RatingFair
	}
	return RatingNeedsPractice
}

// Summarize builds the immutable record of a finished session.
func Summarize(in Input) models.SessionRecord {
	st := in.State
	events := st.Events
	acc := Accuracy(events)

	playedAt := time.Now().UTC()
	spent := 0
	if st.FinishedAt != nil {
		playedAt = st.FinishedAt.UTC()
		if !st.StartedAt.IsZero() {
			spent = int(st.FinishedAt.Sub(st.StartedAt).Seconds())
		}
	}
	if spent < 0 {
		spent = 0
	}

	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	correct, hints, chain := 0, 0, 0
	for _, e := range events {
		if e.Correct {
			correct++
		}
		if e.HintUsed {
			hints++
		}
		if n := len(e.Challenge.Used); n > chain {
			chain = n
		}
	}
	best := BestStreak(events)
	if st.BestStreak > best {
		best = st.BestStreak
	}

	meta := map[string]int{
		MetaCorrect:        correct,
		MetaAttempts:       len(events),
		MetaBestStreak:     best,
		MetaHintsUsed:      hints,
		MetaAvgResponseMs:  AverageResponseMillis(events),
		MetaLivesRemaining: st.Lives,
	}
	if st.TotalRounds > 0 {
		meta[MetaRoundsPlayed] = st.RoundIndex
	}
	if in.Kind == models.KindWordChain {
		meta[MetaChainLength] = chain
	}

	return models.SessionRecord{
		SessionID:        in.SessionID,
		ProfileID:        in.ProfileID,
		GameKind:         in.Kind,
		FinalScore:       st.Score,
		FinalLevel:       st.Level,
		Accuracy:         acc,
		TimeSpentSeconds: spent,
		DifficultyTag:    difficulty,
		Rating:           Rating(acc, st.Score),
		Metadata:         meta,
		PlayedAt:         playedAt,
	}
}

// ImprovementPercent compares the mean of the last three scores with the
// mean of the first three. It is 0 with fewer than six scores or when the
// early mean is 0.
func ImprovementPercent(scores []int) int {
	if len(scores) < 2*ImprovementWindow {
		return 0
	}
	early := mean(scores[:ImprovementWindow])
	if early == 0 {
		return 0
	}
	recent := mean(scores[len(scores)-ImprovementWindow:])
	return int(math.Round((recent - early) / early * 100))
}

// History derives the statistics for one game from records ordered oldest
// first. Records of other games are skipped.
func History(kind models.GameKind, records []models.SessionRecord) models.HistoryStats {
	stats := models.HistoryStats{GameKind: kind}

	var (
		scores   []int
		total    int
		accTotal float64
	)
	for _, r := range records {
		if r.GameKind != kind {
			continue
		}
		scores = append(scores, r.FinalScore)
		total += r.FinalScore
		accTotal += r.Accuracy
		if r.FinalScore > stats.BestScore {
			stats.BestScore = r.FinalScore
		}
		if stats.LastPlayedAt == nil || r.PlayedAt.After(*stats.LastPlayedAt) {
			t := r.PlayedAt
			stats.LastPlayedAt = &t
		}
	}
	if len(scores) == 0 {
		return stats
	}

	n := float64(len(scores))
	stats.GamesPlayed = len(scores)
	stats.AverageScore = int(math.Round(float64(total) / n))
	stats.AverageAccuracyPercent = int(math.Round(accTotal / n * 100))
	stats.ImprovementPercent = ImprovementPercent(scores)
	return stats
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
