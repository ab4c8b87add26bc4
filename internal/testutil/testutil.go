package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/chessactivity/internal/db"
	"github.com/vytor/chessactivity/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	return d.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Game builds a timed record from an RFC 3339 timestamp.
func Game(t *testing.T, ts, timeControl string) models.GameRecord {
	t.Helper()
	end, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	return models.GameRecord{EndTime: &end, TimeControl: timeControl}
}
