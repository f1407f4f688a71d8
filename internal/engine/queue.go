package engine

import (
	"context"
	"log/slog"
	"sync"
)

// ClassifyJob requests background AI classification of a user's pending
// transactions.
type ClassifyJob struct {
	UserID int64
}

// Queue runs classification jobs in the background with bounded
// concurrency. Import can return to the user immediately while AI
// classification proceeds; jobs still queued at shutdown are dropped,
// which is safe because unclassified transactions simply stay pending.
type Queue struct {
	engine  *Engine
	jobs    chan ClassifyJob
	wg      sync.WaitGroup
	once    sync.Once
	workers int
}

// NewQueue creates a job queue backed by the given engine. workers and
// buffer fall back to 1 and the worker count when non-positive.
func NewQueue(engine *Engine, workers, buffer int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = workers
	}
	return &Queue{
		engine:  engine,
		jobs:    make(chan ClassifyJob, buffer),
		workers: workers,
	}
}

// Start launches the worker goroutines. Workers exit when the queue is
// closed or the context is canceled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			processed := q.engine.ProcessWithAI(ctx, job.UserID)
			slog.Debug("Background classification job finished",
				"user_id", job.UserID,
				"processed", processed)
		}
	}
}

// Enqueue submits a job, blocking while the buffer is full. It returns
// ctx.Err if the context is canceled before the job is accepted.
func (q *Queue) Enqueue(ctx context.Context, job ClassifyJob) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.jobs <- job:
		return nil
	}
}

// Close stops accepting jobs and waits for in-flight jobs to finish.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.jobs)
	})
	q.wg.Wait()
}
