package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/brainplay/internal/models"
)

// MockSessionRecordRepository is a mock implementation of repository.SessionRecordRepository
type MockSessionRecordRepository struct {
	mock.Mock
}

func (m *MockSessionRecordRepository) Save(ctx context.Context, rec models.SessionRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRecordRepository) LoadHistory(ctx context.Context, profileID int64, kind models.GameKind) ([]models.SessionRecord, error) {
	args := m.Called(ctx, profileID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockSessionRecordRepository) Recent(ctx context.Context, profileID int64, kind models.GameKind, limit int) ([]models.SessionRecord, error) {
	args := m.Called(ctx, profileID, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockSessionRecordRepository) GetBySession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockSessionRecordRepository) Leaderboard(ctx context.Context, kind models.GameKind, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockSessionRecordRepository) SaveFeedback(ctx context.Context, fb models.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *MockSessionRecordRepository) GetFeedback(ctx context.Context, sessionID string) (*models.Feedback, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}
