package models

import "time"

// HistoryStats is derived from a profile's records for one game. It is
// never stored.
type HistoryStats struct {
	GameKind               GameKind   `json:"game_kind"`
	GamesPlayed            int        `json:"games_played"`
	BestScore              int        `json:"best_score"`
	AverageScore           int        `json:"average_score"`
	AverageAccuracyPercent int        `json:"average_accuracy_percent"`
	ImprovementPercent     int        `json:"improvement_percent"`
	LastPlayedAt           *time.Time `json:"last_played_at,omitempty"`
}

type LeaderboardEntry struct {
	ProfileID   int64     `json:"profile_id"`
	Username    string    `json:"username"`
	BestScore   int       `json:"best_score"`
	GamesPlayed int       `json:"games_played"`
	LastPlayed  time.Time `json:"last_played"`
}
