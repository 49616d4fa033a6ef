package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/brainplay/internal/models"
)

// MockFeedbackResolver is a mock implementation of worker.FeedbackResolver
type MockFeedbackResolver struct {
	mock.Mock
}

func (m *MockFeedbackResolver) Resolve(ctx context.Context, rec models.SessionRecord, recent []models.SessionRecord) models.Feedback {
	args := m.Called(ctx, rec, recent)
	return args.Get(0).(models.Feedback)
}
