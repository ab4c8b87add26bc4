package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSync(username, periodExpr string) error {
	args := m.Called(username, periodExpr)
	return args.Error(0)
}
