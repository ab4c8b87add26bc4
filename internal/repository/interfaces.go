package repository

import (
	"context"

	"github.com/vytor/chessactivity/internal/models"
)

// ArchiveRepository caches raw monthly archive pages per user. Computed
// metrics are never stored.
type ArchiveRepository interface {
	// GetMonth returns the cached records of one month and whether the month is cached at all.
	GetMonth(ctx context.Context, username string, month models.YearMonth) ([]models.GameRecord, bool, error)
	// SaveMonth replaces the cached page for the month.
	SaveMonth(ctx context.Context, username string, month models.YearMonth, records []models.GameRecord) error
	CachedMonths(ctx context.Context, username string) ([]models.CachedMonth, error)
	// DeleteUser drops every cached month of the user and returns how many there were.
	DeleteUser(ctx context.Context, username string) (int, error)
}
