package chesscom

import (
	"context"

	"github.com/vytor/chessactivity/internal/models"
)

// ClientInterface defines the interface for Chess.com API operations.
type ClientInterface interface {
	FetchProfile(ctx context.Context, username string) (*models.Profile, error)
	FetchArchives(ctx context.Context, username string) ([]string, error)
	FetchMonthly(ctx context.Context, username string, month models.YearMonth) ([]MonthlyGame, error)
}

var _ ClientInterface = (*Client)(nil)
