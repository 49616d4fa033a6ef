package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/services"
)

// Sweeper is the part of the session service the reaper drives.
type Sweeper interface {
	Sweep(ctx context.Context, idle, retention time.Duration) services.SweepResult
}

// Reaper periodically abandons idle sessions and evicts finished ones.
type Reaper struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	idle      time.Duration
	retention time.Duration
	log       *logger.Logger
}

// NewReaper creates a reaper that sweeps every interval.
func NewReaper(sweeper Sweeper, interval, idle, retention time.Duration) (*Reaper, error) {
	r := &Reaper{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		idle:      idle,
		retention: retention,
		log:       logger.Default().WithPrefix("reaper"),
	}
	if _, err := r.scheduler.Every(interval).SingletonMode().Do(func() { r.RunOnce() }); err != nil {
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	return r, nil
}

// Start runs the schedule in the background.
func (r *Reaper) Start() {
	r.log.Info("starting: idle=%s retention=%s", r.idle, r.retention)
	r.scheduler.StartAsync()
}

// Stop terminates the schedule. A sweep already running is allowed to finish.
func (r *Reaper) Stop() {
	r.scheduler.Stop()
	r.log.Info("stopped")
}

// RunOnce performs a single sweep.
func (r *Reaper) RunOnce() services.SweepResult {
	ctx := logger.NewContext(context.Background(), r.log)
	return r.sweeper.Sweep(ctx, r.idle, r.retention)
}
