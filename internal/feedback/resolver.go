package feedback

import (
	"context"
	"time"

	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/metrics"
	"github.com/vytor/brainplay/internal/models"
)

// Resolver turns a record into feedback, bounded by a timeout. It never
// fails: any remote error yields the local fallback.
type Resolver struct {
	client  ClientInterface
	timeout time.Duration
	now     func() time.Time
}

func NewResolver(client ClientInterface, timeout time.Duration) *Resolver {
	return &Resolver{client: client, timeout: timeout, now: time.Now}
}

func (r *Resolver) Resolve(ctx context.Context, rec models.SessionRecord, recent []models.SessionRecord) models.Feedback {
	log := logger.FromContext(ctx).WithPrefix("feedback").WithField("session_id", rec.SessionID)

	fb := models.Feedback{SessionID: rec.SessionID}
	if r.client != nil {
		callCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		text, err := r.client.RequestFeedback(callCtx, rec, recent)
		if err == nil && text != "" {
			fb.Text = text
			fb.Source = models.FeedbackRemote
		} else {
			log.Info("using fallback feedback: %v", err)
		}
	}
	if fb.Text == "" {
		fb.Text = Fallback(rec, recent)
		fb.Source = models.FeedbackFallback
	}
	fb.CreatedAt = r.now().UTC()

	metrics.FeedbackResolved.WithLabelValues(fb.Source).Inc()
	return fb
}
