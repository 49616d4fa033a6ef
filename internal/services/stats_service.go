package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/repository"
	"github.com/vytor/brainplay/internal/summary"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// StatsService handles statistics-related business logic. Every figure is
// recomputed from stored records on each call.
type StatsService interface {
	Overview(ctx context.Context, profileID int64) ([]models.HistoryStats, error)
	History(ctx context.Context, profileID int64, kind models.GameKind) (models.HistoryStats, error)
	Recent(ctx context.Context, profileID int64, kind models.GameKind, limit int) ([]models.SessionRecord, error)
	Leaderboard(ctx context.Context, kind models.GameKind, limit int) ([]models.LeaderboardEntry, error)
}

type statsService struct {
	records repository.SessionRecordRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(records repository.SessionRecordRepository) StatsService {
	return &statsService{records: records}
}

func (s *statsService) Overview(ctx context.Context, profileID int64) ([]models.HistoryStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats overview: profile_id=%d", profileID)

	out := make([]models.HistoryStats, len(models.AllKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.AllKinds {
		g.Go(func() error {
			history, err := s.records.LoadHistory(gctx, profileID, kind)
			if err != nil {
				return err
			}
			out[i] = summary.History(kind, history)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to load history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return out, nil
}

func (s *statsService) History(ctx context.Context, profileID int64, kind models.GameKind) (models.HistoryStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting history stats: profile_id=%d game=%s", profileID, kind)

	if !kind.Valid() {
		return models.HistoryStats{}, errors.NewNotFoundError("game", kind)
	}
	history, err := s.records.LoadHistory(ctx, profileID, kind)
	if err != nil {
		log.Error("failed to load history: %v", err)
		return models.HistoryStats{}, errors.NewInternalError(err)
	}
	return summary.History(kind, history), nil
}

func (s *statsService) Recent(ctx context.Context, profileID int64, kind models.GameKind, limit int) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting recent records: profile_id=%d game=%s limit=%d", profileID, kind, limit)

	if kind != "" && !kind.Valid() {
		return nil, errors.NewNotFoundError("game", kind)
	}
	records, err := s.records.Recent(ctx, profileID, kind, clampLimit(limit))
	if err != nil {
		log.Error("failed to load recent records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

func (s *statsService) Leaderboard(ctx context.Context, kind models.GameKind, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting leaderboard: game=%s limit=%d", kind, limit)

	if !kind.Valid() {
		return nil, errors.NewNotFoundError("game", kind)
	}
	entries, err := s.records.Leaderboard(ctx, kind, clampLimit(limit))
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
