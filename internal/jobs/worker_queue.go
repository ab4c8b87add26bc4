package jobs

import (
	"github.com/vytor/chessactivity/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	syncPool *worker.Pool
	syncer   worker.ArchiveSyncer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(syncPool *worker.Pool, syncer worker.ArchiveSyncer) JobQueue {
	return &WorkerQueue{syncPool: syncPool, syncer: syncer}
}

func (q *WorkerQueue) EnqueueSync(username, periodExpr string) error {
	return q.syncPool.TrySubmit(&worker.SyncArchivesJob{
		Syncer:   q.syncer,
		Username: username,
		Period:   periodExpr,
	})
}
