package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/brainplay/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueFinalize(rec models.SessionRecord, onDone func(models.SessionRecord, models.Feedback)) error {
	args := m.Called(rec, onDone)
	return args.Error(0)
}
