package api

import (
	"context"

	"github.com/vytor/brainplay/internal/services"
)

// ReadinessChecker reports whether a backing store can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	SessionService services.SessionService
	StatsService   services.StatsService
	ProfileService services.ProfileService
	Readiness      ReadinessChecker
}
