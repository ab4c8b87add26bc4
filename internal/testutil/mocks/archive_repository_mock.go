package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chessactivity/internal/models"
)

// MockArchiveRepository is a mock implementation of repository.ArchiveRepository
type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) GetMonth(ctx context.Context, username string, month models.YearMonth) ([]models.GameRecord, bool, error) {
	args := m.Called(ctx, username, month)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.GameRecord), args.Bool(1), args.Error(2)
}

func (m *MockArchiveRepository) SaveMonth(ctx context.Context, username string, month models.YearMonth, records []models.GameRecord) error {
	args := m.Called(ctx, username, month, records)
	return args.Error(0)
}

func (m *MockArchiveRepository) CachedMonths(ctx context.Context, username string) ([]models.CachedMonth, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CachedMonth), args.Error(1)
}

func (m *MockArchiveRepository) DeleteUser(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}
