package worker

import (
	"context"
	"fmt"

	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/metrics"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/repository"
)

// RecentHistory is how many earlier records are passed to feedback.
const RecentHistory = 5

// FinalizeSessionJob persists a finished session and attaches feedback.
// A failed save is logged and counted but never stops the feedback step.
type FinalizeSessionJob struct {
	Records  repository.SessionRecordRepository
	Feedback FeedbackResolver
	Record   models.SessionRecord
	// OnDone, if set, receives the outcome whether or not the save worked.
	OnDone func(rec models.SessionRecord, fb models.Feedback)
}

func (j *FinalizeSessionJob) Name() string { return "finalize_session" }

func (j *FinalizeSessionJob) Run(ctx context.Context) error {
	rec := j.Record
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": rec.SessionID,
		"game":       string(rec.GameKind),
	})
	ctx = logger.NewContext(ctx, log)

	var saveErr error
	id, err := j.Records.Save(ctx, rec)
	if err != nil {
		saveErr = fmt.Errorf("save record: %w", err)
		metrics.PersistenceFailures.Inc()
		log.Error("failed to persist session record: %v", err)
	} else {
		rec.ID = id
		log.Info("session record saved: id=%d score=%d", id, rec.FinalScore)
	}

	var recent []models.SessionRecord
	history, err := j.Records.LoadHistory(ctx, rec.ProfileID, rec.GameKind)
	if err != nil {
		log.Warn("failed to load history for feedback: %v", err)
	}
	for _, h := range history {
		if h.SessionID != rec.SessionID {
			recent = append(recent, h)
		}
	}
	if len(recent) > RecentHistory {
		recent = recent[len(recent)-RecentHistory:]
	}

	fb := j.Feedback.Resolve(ctx, rec, recent)
	if saveErr == nil {
		if err := j.Records.SaveFeedback(ctx, fb); err != nil {
			log.Warn("failed to persist feedback: %v", err)
		}
	}

	if j.OnDone != nil {
		j.OnDone(rec, fb)
	}
	return saveErr
}
