package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/brainplay/internal/models"
)

// MockFeedbackClient is a mock implementation of feedback.ClientInterface
type MockFeedbackClient struct {
	mock.Mock
}

func (m *MockFeedbackClient) RequestFeedback(ctx context.Context, rec models.SessionRecord, recent []models.SessionRecord) (string, error) {
	args := m.Called(ctx, rec, recent)
	return args.String(0), args.Error(1)
}
