package jobs

import "github.com/vytor/brainplay/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueFinalize persists rec and resolves its feedback off the
	// caller's goroutine. onDone may be nil.
	EnqueueFinalize(rec models.SessionRecord, onDone func(models.SessionRecord, models.Feedback)) error
}
