package worker

import (
	"context"

	"github.com/vytor/brainplay/internal/models"
)

// FeedbackResolver produces feedback for a finished session.
// This avoids import cycles by not importing the feedback package
type FeedbackResolver interface {
	Resolve(ctx context.Context, rec models.SessionRecord, recent []models.SessionRecord) models.Feedback
}
