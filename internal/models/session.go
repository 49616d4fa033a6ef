package models

import "time"

// State is a node of the session state machine.
type State string

const (
	StateIdle         State = "idle"
	StateInstructions State = "instructions"
	StatePlaying      State = "playing"
	StateShowing      State = "showing"
	StateInputting    State = "inputting"
	StatePaused       State = "paused"
	StateFinished     State = "finished"
)

// FinishReason records which trigger ended a session.
type FinishReason string

const (
	FinishOutOfLives     FinishReason = "out_of_lives"
	FinishTimeUp         FinishReason = "time_up"
	FinishRoundsComplete FinishReason = "rounds_complete"
	FinishContentError   FinishReason = "content_error"
	FinishQuit           FinishReason = "quit"
	FinishAbandoned      FinishReason = "abandoned"
)

// SessionState is the mutable state of one live session.
type SessionState struct {
	State               State         `json:"state"`
	Score               int           `json:"score"`
	Level               int           `json:"level"`
	Lives               int           `json:"lives"`
	Streak              int           `json:"streak"`
	BestStreak          int           `json:"best_streak"`
	TimeRemainingMillis int64         `json:"time_remaining_ms,omitempty"`
	RoundIndex          int           `json:"round_index,omitempty"`
	TotalRounds         int           `json:"total_rounds,omitempty"`
	Events              []AnswerEvent `json:"events"`
	FinishReason        FinishReason  `json:"finish_reason,omitempty"`
	StartedAt           time.Time     `json:"started_at"`
	FinishedAt          *time.Time    `json:"finished_at,omitempty"`
}

// SessionRecord is the immutable summary of a finished session.
type SessionRecord struct {
	ID               int64          `json:"id"`
	SessionID        string         `json:"session_id"`
	ProfileID        int64          `json:"profile_id"`
	GameKind         GameKind       `json:"game_kind"`
	FinalScore       int            `json:"final_score"`
	FinalLevel       int            `json:"final_level"`
	Accuracy         float64        `json:"accuracy"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	DifficultyTag    string         `json:"difficulty"`
	Rating           string         `json:"rating"`
	Metadata         map[string]int `json:"metadata"`
	PlayedAt         time.Time      `json:"played_at"`
}

// Feedback source values.
const (
	FeedbackRemote   = "remote"
	FeedbackFallback = "fallback"
)

// Feedback is the encouragement text attached to a finished session.
type Feedback struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
