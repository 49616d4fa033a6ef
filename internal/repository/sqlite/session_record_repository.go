package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	apperrors "github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/repository"
)

var recordColumns = []string{
	"id", "session_id", "profile_id", "game_kind", "final_score", "final_level",
	"accuracy", "time_spent_seconds", "difficulty", "rating", "metadata", "played_at",
}

type sessionRecordRepository struct {
	db *sql.DB
}

// NewSessionRecordRepository creates a new SessionRecordRepository implementation
func NewSessionRecordRepository(db *sql.DB) repository.SessionRecordRepository {
	return &sessionRecordRepository{db: db}
}

func (r *sessionRecordRepository) Save(ctx context.Context, rec models.SessionRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo").WithField("session_id", rec.SessionID)
	log.Debug("saving record: game=%s score=%d", rec.GameKind, rec.FinalScore)

	meta := rec.Metadata
	if meta == nil {
		meta = map[string]int{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("%w: encode metadata: %v", apperrors.ErrPersistence, err)
	}

	query, args, err := sqlBuilder.Insert("session_records").
		Columns(recordColumns[1:]...).
		Values(
			rec.SessionID, nullableProfile(rec.ProfileID), string(rec.GameKind), rec.FinalScore,
			rec.FinalLevel, rec.Accuracy, rec.TimeSpentSeconds, rec.DifficultyTag, rec.Rating,
			string(metaJSON), rec.PlayedAt.UTC(),
		).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("record already saved")
			return 0, fmt.Errorf("%w: session %s already recorded", apperrors.ErrPersistence, rec.SessionID)
		}
		log.Error("failed to save record: %v", err)
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Debug("record saved: id=%d", id)
	return id, nil
}

func (r *sessionRecordRepository) LoadHistory(ctx context.Context, profileID int64, kind models.GameKind) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("loading history: profile_id=%d game=%s", profileID, kind)

	query := sqlBuilder.Select(recordColumns...).
		From("session_records").
		Where(profileFilter(profileID)).
		Where(squirrel.Eq{"game_kind": string(kind)}).
		OrderBy("played_at ASC", "id ASC")

	return r.query(ctx, log, query)
}

func (r *sessionRecordRepository) Recent(ctx context.Context, profileID int64, kind models.GameKind, limit int) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("loading recent records: profile_id=%d game=%s limit=%d", profileID, kind, limit)

	if limit <= 0 {
		limit = 10
	}
	query := sqlBuilder.Select(recordColumns...).
		From("session_records").
		Where(profileFilter(profileID)).
		OrderBy("played_at DESC", "id DESC").
		Limit(uint64(limit))
	if kind != "" {
		query = query.Where(squirrel.Eq{"game_kind": string(kind)})
	}

	return r.query(ctx, log, query)
}

func (r *sessionRecordRepository) GetBySession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo").WithField("session_id", sessionID)

	query := sqlBuilder.Select(recordColumns...).
		From("session_records").
		Where(squirrel.Eq{"session_id": sessionID})

	records, err := r.query(ctx, log, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Debug("record not found")
		return nil, nil
	}
	return &records[0], nil
}

func (r *sessionRecordRepository) Leaderboard(ctx context.Context, kind models.GameKind, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("loading leaderboard: game=%s limit=%d", kind, limit)

	if limit <= 0 {
		limit = 10
	}
	sqlStr, args, err := sqlBuilder.Select(
		"p.id", "p.username", "MAX(r.final_score) AS best", "COUNT(*)", "MAX(r.played_at)",
	).
		From("session_records r").
		Join("profiles p ON p.id = r.profile_id").
		Where(squirrel.Eq{"r.game_kind": string(kind)}).
		GroupBy("p.id", "p.username").
		OrderBy("best DESC", "p.username ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var (
			e    models.LeaderboardEntry
			last string
		)
		if err := rows.Scan(&e.ProfileID, &e.Username, &e.BestScore, &e.GamesPlayed, &last); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		if e.LastPlayed, err = parseTime(last); err != nil {
			log.Error("failed to parse last played: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("leaderboard has %d entries", len(entries))
	return entries, rows.Err()
}

func (r *sessionRecordRepository) SaveFeedback(ctx context.Context, fb models.Feedback) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo").WithField("session_id", fb.SessionID)
	log.Debug("saving feedback: source=%s", fb.Source)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO session_feedback (session_id, text, source, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET text = excluded.text, source = excluded.source, created_at = excluded.created_at
`, fb.SessionID, fb.Text, fb.Source, fb.CreatedAt.UTC())
	if err != nil {
		log.Error("failed to save feedback: %v", err)
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *sessionRecordRepository) GetFeedback(ctx context.Context, sessionID string) (*models.Feedback, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo").WithField("session_id", sessionID)

	var fb models.Feedback
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, text, source, created_at
FROM session_feedback
WHERE session_id = ?
`, sessionID).Scan(&fb.SessionID, &fb.Text, &fb.Source, &fb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("feedback not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get feedback: %v", err)
		return nil, err
	}
	return &fb, nil
}

func (r *sessionRecordRepository) query(ctx context.Context, log *logger.Logger, query squirrel.SelectBuilder) ([]models.SessionRecord, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query records: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.SessionRecord{}
	for rows.Next() {
		var (
			rec       models.SessionRecord
			profileID sql.NullInt64
			kind      string
			meta      string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &profileID, &kind, &rec.FinalScore, &rec.FinalLevel,
			&rec.Accuracy, &rec.TimeSpentSeconds, &rec.DifficultyTag, &rec.Rating, &meta, &rec.PlayedAt,
		); err != nil {
			log.Error("failed to scan record row: %v", err)
			return nil, err
		}
		rec.ProfileID = profileID.Int64
		rec.GameKind = models.GameKind(kind)
		rec.PlayedAt = rec.PlayedAt.UTC()
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			log.Error("failed to decode metadata for record %d: %v", rec.ID, err)
			return nil, err
		}
		records = append(records, rec)
	}
	log.Debug("found %d records", len(records))
	return records, rows.Err()
}
