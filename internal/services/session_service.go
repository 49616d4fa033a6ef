package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/feedback"
	"github.com/vytor/brainplay/internal/game"
	"github.com/vytor/brainplay/internal/jobs"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/metrics"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/repository"
	"github.com/vytor/brainplay/internal/session"
	"github.com/vytor/brainplay/internal/summary"
)

// StartSessionRequest describes a new session.
type StartSessionRequest struct {
	Kind       models.GameKind
	ProfileID  int64
	Difficulty string
}

// SessionResult is the outcome of a finished session. Pending is set until
// the background finalize step has stored the record and feedback.
type SessionResult struct {
	Record   models.SessionRecord `json:"record"`
	Feedback *models.Feedback     `json:"feedback,omitempty"`
	Pending  bool                 `json:"pending"`
}

// SweepResult counts what one Sweep did.
type SweepResult struct {
	Abandoned int
	Evicted   int
}

// SessionService owns every live session in the process.
type SessionService interface {
	Start(ctx context.Context, req StartSessionRequest) (session.Snapshot, error)
	Begin(ctx context.Context, id string) (session.Snapshot, error)
	Shown(ctx context.Context, id string) (session.Snapshot, error)
	Answer(ctx context.Context, id string, sub models.Submission) (session.Outcome, error)
	Hint(ctx context.Context, id string) (string, error)
	Pause(ctx context.Context, id string) (session.Snapshot, error)
	Resume(ctx context.Context, id string) (session.Snapshot, error)
	Quit(ctx context.Context, id string) (session.Snapshot, error)
	Get(ctx context.Context, id string) (session.Snapshot, error)
	Result(ctx context.Context, id string) (*SessionResult, error)
	Subscribe(ctx context.Context, id string, fn func(session.Transition)) (func(), error)
	// Sweep abandons sessions idle for longer than idle and evicts
	// sessions finished more than retention ago.
	Sweep(ctx context.Context, idle, retention time.Duration) SweepResult
	Live() int
}

// SessionOptions tunes the controllers a SessionService creates.
type SessionOptions struct {
	TickInterval time.Duration
	TimerFactory session.TimerFactory
	Clock        func() time.Time
}

type liveSession struct {
	ctrl       *session.Controller
	profileID  int64
	difficulty string

	mu         sync.Mutex
	finishedAt time.Time
	result     *SessionResult
}

type sessionService struct {
	catalog  *game.Catalog
	gen      game.Generator
	queue    jobs.JobQueue
	records  repository.SessionRecordRepository
	profiles repository.ProfileRepository
	opts     SessionOptions

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

// NewSessionService creates a new SessionService
func NewSessionService(
	catalog *game.Catalog,
	gen game.Generator,
	queue jobs.JobQueue,
	records repository.SessionRecordRepository,
	profiles repository.ProfileRepository,
	opts SessionOptions,
) SessionService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &sessionService{
		catalog:  catalog,
		gen:      gen,
		queue:    queue,
		records:  records,
		profiles: profiles,
		opts:     opts,
		sessions: make(map[string]*liveSession),
	}
}

func (s *sessionService) Start(ctx context.Context, req StartSessionRequest) (session.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: game=%s profile_id=%d difficulty=%s", req.Kind, req.ProfileID, req.Difficulty)

	k, ok := s.catalog.Get(req.Kind)
	if !ok {
		return session.Snapshot{}, errors.NewValidationError("game", "unknown game "+string(req.Kind))
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(difficulty) {
		return session.Snapshot{}, errors.NewValidationError("difficulty", "must be easy, medium, hard or expert")
	}
	if req.ProfileID != 0 {
		p, err := s.profiles.Get(ctx, req.ProfileID)
		if err != nil {
			log.Error("failed to load profile: %v", err)
			return session.Snapshot{}, errors.NewInternalError(err)
		}
		if p == nil {
			return session.Snapshot{}, errors.NewNotFoundError("profile", req.ProfileID)
		}
	}

	id := uuid.New().String()
	opts := []session.Option{
		session.WithClock(s.opts.Clock),
		session.WithLogger(logger.Default()),
	}
	if s.opts.TickInterval > 0 {
		opts = append(opts, session.WithTickInterval(s.opts.TickInterval))
	}
	if s.opts.TimerFactory != nil {
		opts = append(opts, session.WithTimerFactory(s.opts.TimerFactory))
	}

	ls := &liveSession{
		ctrl:       session.New(id, k, s.gen, opts...),
		profileID:  req.ProfileID,
		difficulty: difficulty,
	}
	ls.ctrl.Subscribe(func(t session.Transition) {
		if t.Event == session.EventFinish {
			s.onFinish(ls, t.Snapshot)
		}
	})
	if err := ls.ctrl.Start(); err != nil {
		return session.Snapshot{}, errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.sessions[id] = ls
	live := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsStarted.WithLabelValues(string(req.Kind)).Inc()
	metrics.SessionsLive.Set(float64(live))
	log.Info("session started: id=%s game=%s", id, req.Kind)
	return ls.ctrl.Snapshot(), nil
}

func (s *sessionService) Begin(ctx context.Context, id string) (session.Snapshot, error) {
	return s.transition(ctx, id, "begin", (*session.Controller).Begin)
}

func (s *sessionService) Shown(ctx context.Context, id string) (session.Snapshot, error) {
	return s.transition(ctx, id, "shown", (*session.Controller).StimulusShown)
}

func (s *sessionService) Pause(ctx context.Context, id string) (session.Snapshot, error) {
	return s.transition(ctx, id, "pause", (*session.Controller).Pause)
}

func (s *sessionService) Resume(ctx context.Context, id string) (session.Snapshot, error) {
	return s.transition(ctx, id, "resume", (*session.Controller).Resume)
}

func (s *sessionService) Quit(ctx context.Context, id string) (session.Snapshot, error) {
	return s.transition(ctx, id, "quit", func(c *session.Controller) error {
		return c.Finish(models.FinishQuit)
	})
}

func (s *sessionService) Answer(ctx context.Context, id string, sub models.Submission) (session.Outcome, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return session.Outcome{}, err
	}
	out, err := ls.ctrl.Submit(sub)
	if err != nil {
		return session.Outcome{}, errors.NewInternalError(err)
	}
	if out.Event != nil {
		correct := "false"
		if out.Event.Correct {
			correct = "true"
		}
		metrics.Answers.WithLabelValues(string(ls.ctrl.Kind()), correct).Inc()
		logger.FromContext(ctx).Debug("answer: session=%s correct=%t points=%d", id, out.Event.Correct, out.Event.Points)
	}
	return out, nil
}

func (s *sessionService) Hint(ctx context.Context, id string) (string, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	hint, err := ls.ctrl.Hint()
	if err != nil {
		return "", conflict("hint", err)
	}
	return hint, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (session.Snapshot, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return ls.ctrl.Snapshot(), nil
}

func (s *sessionService) Result(ctx context.Context, id string) (*SessionResult, error) {
	log := logger.FromContext(ctx)

	if ls, err := s.lookup(id); err == nil {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if ls.result == nil {
			return nil, errors.NewConflictError("session has not finished", errors.ErrInvalidTransition)
		}
		res := *ls.result
		return &res, nil
	}

	// Evicted from memory: fall back to what was persisted.
	rec, err := s.records.GetBySession(ctx, id)
	if err != nil {
		log.Error("failed to load record: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	fb, err := s.records.GetFeedback(ctx, id)
	if err != nil {
		log.Warn("failed to load feedback: %v", err)
	}
	return &SessionResult{Record: *rec, Feedback: fb}, nil
}

func (s *sessionService) Subscribe(ctx context.Context, id string, fn func(session.Transition)) (func(), error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return ls.ctrl.Subscribe(fn), nil
}

func (s *sessionService) Sweep(ctx context.Context, idle, retention time.Duration) SweepResult {
	log := logger.FromContext(ctx).WithPrefix("sweep")
	now := s.opts.Clock()

	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	var res SweepResult
	for _, id := range ids {
		ls, err := s.lookup(id)
		if err != nil {
			continue
		}
		if ls.ctrl.State() != models.StateFinished {
			if now.Sub(ls.ctrl.LastActivity()) > idle {
				if err := ls.ctrl.Finish(models.FinishAbandoned); err == nil {
					res.Abandoned++
					log.Info("abandoned idle session %s", id)
				}
			}
			continue
		}

		ls.mu.Lock()
		expired := !ls.finishedAt.IsZero() && now.Sub(ls.finishedAt) > retention
		ls.mu.Unlock()
		if expired {
			s.mu.Lock()
			delete(s.sessions, id)
			s.mu.Unlock()
			res.Evicted++
		}
	}

	metrics.SessionsLive.Set(float64(s.Live()))
	if res.Abandoned > 0 || res.Evicted > 0 {
		log.Info("sweep done: abandoned=%d evicted=%d", res.Abandoned, res.Evicted)
	}
	return res
}

func (s *sessionService) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionService) transition(ctx context.Context, id, name string, fn func(*session.Controller) error) (session.Snapshot, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := fn(ls.ctrl); err != nil {
		logger.FromContext(ctx).Debug("%s rejected for session %s: %v", name, id, err)
		return session.Snapshot{}, conflict(name, err)
	}
	return ls.ctrl.Snapshot(), nil
}

func (s *sessionService) lookup(id string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return ls, nil
}

// onFinish runs on whichever goroutine finished the session: a request
// handler, the ticker or the sweeper.
func (s *sessionService) onFinish(ls *liveSession, snap session.Snapshot) {
	log := logger.Default().ForSession(snap.ID, string(snap.Kind))
	metrics.SessionsFinished.WithLabelValues(string(snap.Kind), string(snap.State.FinishReason)).Inc()

	ls.mu.Lock()
	if snap.State.FinishedAt != nil {
		ls.finishedAt = *snap.State.FinishedAt
	} else {
		ls.finishedAt = s.opts.Clock()
	}
	ls.mu.Unlock()

	// Sessions that never got past the instructions have nothing to record.
	if snap.State.StartedAt.IsZero() {
		log.Debug("session finished before it began, nothing to record")
		return
	}

	rec := summary.Summarize(summary.Input{
		SessionID:  snap.ID,
		ProfileID:  ls.profileID,
		Kind:       snap.Kind,
		Difficulty: ls.difficulty,
		State:      snap.State,
	})
	// Shown until the finalize job reports back.
	fallback := models.Feedback{
		SessionID: rec.SessionID,
		Text:      feedback.Fallback(rec, nil),
		Source:    models.FeedbackFallback,
		CreatedAt: s.opts.Clock().UTC(),
	}

	ls.mu.Lock()
	ls.result = &SessionResult{Record: rec, Feedback: &fallback, Pending: true}
	ls.mu.Unlock()

	err := s.queue.EnqueueFinalize(rec, func(saved models.SessionRecord, fb models.Feedback) {
		ls.mu.Lock()
		ls.result = &SessionResult{Record: saved, Feedback: &fb}
		ls.mu.Unlock()
	})
	if err != nil {
		log.Error("failed to enqueue finalize: %v", err)
		ls.mu.Lock()
		ls.result.Pending = false
		ls.mu.Unlock()
	}
}

func conflict(action string, err error) error {
	if errors.Is(err, errors.ErrInvalidTransition) {
		return errors.NewConflictError(action+" not allowed now", err)
	}
	return errors.NewInternalError(err)
}
