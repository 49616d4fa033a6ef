package feedback

import (
	"context"

	"github.com/vytor/brainplay/internal/models"
)

// ClientInterface requests encouragement text for a finished session.
// recent holds earlier records of the same game, oldest first.
type ClientInterface interface {
	RequestFeedback(ctx context.Context, rec models.SessionRecord, recent []models.SessionRecord) (string, error)
}

var _ ClientInterface = (*Client)(nil)
