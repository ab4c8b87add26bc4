package worker

import (
	"context"

	"github.com/vytor/chessactivity/internal/logger"
)

// ArchiveSyncer is the part of the activity service a sync job needs.
type ArchiveSyncer interface {
	Sync(ctx context.Context, username, periodExpr string) (int, error)
}

// SyncArchivesJob warms the archive cache for one player and period.
type SyncArchivesJob struct {
	Syncer   ArchiveSyncer
	Username string
	Period   string
}

func (j *SyncArchivesJob) Name() string { return "sync_archives" }

func (j *SyncArchivesJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"username": j.Username,
		"period":   j.Period,
	})
	log.Info("starting background sync")

	n, err := j.Syncer.Sync(ctx, j.Username, j.Period)
	if err != nil {
		log.Error("sync failed after %d months: %v", n, err)
		return err
	}
	log.Info("background sync cached %d months", n)
	return nil
}
