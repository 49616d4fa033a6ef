package jobs

import (
	"context"
	"sync/atomic"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/repository"
	"github.com/vytor/brainplay/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	finalizePool *worker.Pool
	records      repository.SessionRecordRepository
	feedback     worker.FeedbackResolver
	log          *logger.Logger
	draining     atomic.Bool
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	finalizePool *worker.Pool,
	records repository.SessionRecordRepository,
	feedback worker.FeedbackResolver,
) *WorkerQueue {
	return &WorkerQueue{
		finalizePool: finalizePool,
		records:      records,
		feedback:     feedback,
		log:          logger.Default().WithPrefix("jobs"),
	}
}

var _ JobQueue = (*WorkerQueue)(nil)

// Drain makes every later EnqueueFinalize wait for room in the pool queue,
// so that stopping the pool also waits for those records.
func (q *WorkerQueue) Drain() {
	q.draining.Store(true)
}

// EnqueueFinalize never blocks unless the queue is draining. When the queue
// is full the job runs on its own goroutine so the record is still saved.
func (q *WorkerQueue) EnqueueFinalize(rec models.SessionRecord, onDone func(models.SessionRecord, models.Feedback)) error {
	job := &worker.FinalizeSessionJob{
		Records:  q.records,
		Feedback: q.feedback,
		Record:   rec,
		OnDone:   onDone,
	}

	if q.draining.Load() {
		return q.finalizePool.Submit(job)
	}

	err := q.finalizePool.TrySubmit(job)
	if errors.Is(err, worker.ErrQueueFull) {
		q.log.Warn("finalize queue full, running session %s inline", rec.SessionID)
		go func() {
			ctx := logger.NewContext(context.Background(), q.log.WithField("job", job.Name()))
			if err := job.Run(ctx); err != nil {
				q.log.Error("inline finalize failed: %v", err)
			}
		}()
		return nil
	}
	return err
}
