package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chessactivity/internal/models"
	"github.com/vytor/chessactivity/internal/services"
)

// MockActivityService is a mock implementation of services.ActivityService
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Analyze(ctx context.Context, username, periodExpr string) (*services.ActivityReport, error) {
	args := m.Called(ctx, username, periodExpr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ActivityReport), args.Error(1)
}

func (m *MockActivityService) Sync(ctx context.Context, username, periodExpr string) (int, error) {
	args := m.Called(ctx, username, periodExpr)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityService) CachedMonths(ctx context.Context, username string) ([]models.CachedMonth, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CachedMonth), args.Error(1)
}

func (m *MockActivityService) InvalidateUser(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}
