package repository

import (
	"context"

	"github.com/vytor/brainplay/internal/models"
)

// SessionRecordRepository stores finished sessions. Records are append-only:
// there is no update or delete beyond the profile cascade.
type SessionRecordRepository interface {
	Save(ctx context.Context, rec models.SessionRecord) (int64, error)
	// LoadHistory returns a profile's records for one game, oldest first.
	// Profile 0 is the anonymous player.
	LoadHistory(ctx context.Context, profileID int64, kind models.GameKind) ([]models.SessionRecord, error)
	// Recent returns up to limit records, newest first. An empty kind
	// matches every game.
	Recent(ctx context.Context, profileID int64, kind models.GameKind, limit int) ([]models.SessionRecord, error)
	GetBySession(ctx context.Context, sessionID string) (*models.SessionRecord, error)
	Leaderboard(ctx context.Context, kind models.GameKind, limit int) ([]models.LeaderboardEntry, error)
	SaveFeedback(ctx context.Context, fb models.Feedback) error
	GetFeedback(ctx context.Context, sessionID string) (*models.Feedback, error)
}

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, username string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}
