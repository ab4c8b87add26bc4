package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueSync schedules a cache warm-up for one player. It fails with
	// worker.ErrQueueFull instead of blocking.
	EnqueueSync(username, periodExpr string) error
}
