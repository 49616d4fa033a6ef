package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/game"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
)

// Event names carried on transitions.
const (
	EventStart     = "start"
	EventBegin     = "begin"
	EventChallenge = "challenge"
	EventShown     = "shown"
	EventHint      = "hint"
	EventAnswer    = "answer"
	EventLevelUp   = "level_up"
	EventPause     = "pause"
	EventResume    = "resume"
	EventTick      = "tick"
	EventFinish    = "finish"
)

// Snapshot is a copy of a session that is safe to hand out.
type Snapshot struct {
	ID        string              `json:"id"`
	Kind      models.GameKind     `json:"kind"`
	State     models.SessionState `json:"session"`
	Challenge *models.Challenge   `json:"challenge,omitempty"`
}

// Transition is published to subscribers after every state change.
type Transition struct {
	Event    string       `json:"event"`
	From     models.State `json:"from"`
	To       models.State `json:"to"`
	At       time.Time    `json:"at"`
	Snapshot Snapshot     `json:"snapshot"`
}

// Outcome is the result of a submission.
type Outcome struct {
	// Ignored is set when no challenge was waiting for input.
	Ignored  bool                `json:"ignored"`
	Event    *models.AnswerEvent `json:"event,omitempty"`
	LevelUp  bool                `json:"level_up"`
	Snapshot Snapshot            `json:"snapshot"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimerFactory replaces the wall-clock ticker.
func WithTimerFactory(f TimerFactory) Option {
	return func(c *Controller) { c.newTimer = f }
}

// WithTickInterval sets how much time one tick removes from the clock.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the base logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

type subscriber struct {
	id int
	fn func(Transition)
}

// Controller owns one game session and drives it through its states.
// All methods are safe for concurrent use; subscribers are called after
// the controller's lock is released.
type Controller struct {
	mu sync.Mutex

	id       string
	k        game.Constants
	gen      game.Generator
	now      func() time.Time
	newTimer TimerFactory
	interval time.Duration
	log      *logger.Logger

	st          models.SessionState
	pausedFrom  models.State
	pausedAt    time.Time
	pending     *models.Challenge
	presentedAt time.Time
	hintShown   bool
	chain       []string
	seq         int
	timer       Stopper
	tickedAt    time.Time
	generation  uint64
	lastActive  time.Time
	err         error

	subs   []subscriber
	nextID int
	queue  []Transition
}

// New returns a controller in the idle state.
func New(id string, k game.Constants, gen game.Generator, opts ...Option) *Controller {
	c := &Controller{
		id:       id,
		k:        k,
		gen:      gen,
		now:      time.Now,
		newTimer: NewTicker,
		interval: time.Second,
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.ForSession(id, string(k.Kind))
	c.st = models.SessionState{
		State:  models.StateIdle,
		Level:  1,
		Lives:  k.StartingLives,
		Events: []models.AnswerEvent{},
	}
	c.lastActive = c.now()
	return c
}

func (c *Controller) ID() string                { return c.id }
func (c *Controller) Kind() models.GameKind     { return c.k.Kind }
func (c *Controller) Constants() game.Constants { return c.k }

// Start moves idle to instructions.
func (c *Controller) Start() error {
	return c.act(func() error {
		if c.st.State != models.StateIdle {
			return c.reject(EventStart)
		}
		c.setState(models.StateInstructions, EventStart)
		return nil
	})
}

// Begin resets the session, deals the first challenge and starts the clock.
// If no challenge can be generated the session finishes instead.
func (c *Controller) Begin() error {
	return c.act(func() error {
		if c.st.State != models.StateInstructions {
			return c.reject(EventBegin)
		}
		c.st = models.SessionState{
			State:     models.StateInstructions,
			Level:     1,
			Lives:     c.k.StartingLives,
			Events:    []models.AnswerEvent{},
			StartedAt: c.now(),
		}
		if c.k.Timed() {
			c.st.TimeRemainingMillis = int64(c.k.TimeLimitSeconds) * 1000
		}
		if c.k.RoundBased() {
			c.st.TotalRounds = c.k.TotalRounds
		}
		c.chain = nil
		c.seq = 0
		c.setState(models.StatePlaying, EventBegin)

		if !c.next() {
			return nil
		}
		if c.k.Timed() {
			c.startTimer()
		}
		return nil
	})
}

// StimulusShown ends the showing phase and opens the challenge for input.
func (c *Controller) StimulusShown() error {
	return c.act(func() error {
		if c.st.State != models.StateShowing {
			return c.reject(EventShown)
		}
		c.presentedAt = c.now()
		c.setState(models.StateInputting, EventShown)
		return nil
	})
}

// Hint reveals the pending challenge's hint. Answering after a hint is
// scored with the game's hint penalty.
func (c *Controller) Hint() (string, error) {
	var hint string
	err := c.act(func() error {
		if !c.accepting() {
			return c.reject(EventHint)
		}
		hint = c.pending.Hint
		if hint != "" && !c.hintShown {
			c.hintShown = true
			c.emit(EventHint, c.st.State)
		}
		return nil
	})
	return hint, err
}

// Submit evaluates a response to the pending challenge. Input that arrives
// while nothing is pending, or that names another challenge, is ignored.
func (c *Controller) Submit(sub models.Submission) (Outcome, error) {
	var out Outcome
	err := c.act(func() error {
		if !c.accepting() || (sub.Seq != 0 && sub.Seq != c.pending.Seq) {
			out.Ignored = true
			out.Snapshot = c.snapshotLocked()
			return nil
		}

		ch := *c.pending
		rt := sub.ResponseTimeMillis
		if rt <= 0 {
			rt = c.now().Sub(c.presentedAt).Milliseconds()
		}
		if rt < 0 {
			rt = 0
		}
		hint := sub.HintUsed || c.hintShown
		ev := models.AnswerEvent{
			Correct:            game.Judge(ch, sub.Values, rt, c.k),
			ResponseTimeMillis: rt,
			HintUsed:           hint,
			Challenge:          ch,
		}
		c.pending = nil
		c.hintShown = false

		if ev.Correct {
			ev.Points = game.Points(c.st.Level, c.st.Streak, c.timing(rt), hint, c.k)
			c.st.Score += ev.Points
			c.st.Streak++
			if c.st.Streak > c.st.BestStreak {
				c.st.BestStreak = c.st.Streak
			}
			if len(ch.Used) > 0 && len(sub.Values) == 1 {
				word := strings.ToLower(strings.TrimSpace(sub.Values[0]))
				c.chain = append(append([]string(nil), ch.Used...), word)
			}
		} else {
			c.st.Lives--
			c.st.Streak = 0
		}
		c.st.Events = append(c.st.Events, ev)
		c.emit(EventAnswer, c.st.State)

		if ev.Correct && c.levelUpDue() {
			c.st.Level++
			out.LevelUp = true
			c.log.Debug("level up: level=%d streak=%d", c.st.Level, c.st.Streak)
			c.emit(EventLevelUp, c.st.State)
		}
		if c.k.RoundBased() {
			c.st.RoundIndex++
		}

		switch {
		case c.st.Lives <= 0:
			c.st.Lives = 0
			c.finish(models.FinishOutOfLives)
		case c.k.RoundBased() && c.st.RoundIndex >= c.st.TotalRounds:
			c.finish(models.FinishRoundsComplete)
		default:
			c.next()
		}

		out.Event = &ev
		out.Snapshot = c.snapshotLocked()
		return nil
	})
	return out, err
}

// Pause freezes the clock. The part of the current interval already played
// is charged to the countdown, which may finish the session. The pending
// challenge is kept as is.
func (c *Controller) Pause() error {
	return c.act(func() error {
		if c.st.State != models.StatePlaying && c.st.State != models.StateInputting {
			return c.reject(EventPause)
		}
		if c.k.Timed() && !c.charge() {
			return nil
		}
		c.pausedFrom = c.st.State
		c.pausedAt = c.now()
		c.stopTimer()
		c.setState(models.StatePaused, EventPause)
		return nil
	})
}

// Resume returns to the state the session was paused from.
func (c *Controller) Resume() error {
	return c.act(func() error {
		if c.st.State != models.StatePaused {
			return c.reject(EventResume)
		}
		// Time spent paused does not count as response time.
		c.presentedAt = c.presentedAt.Add(c.now().Sub(c.pausedAt))
		c.setState(c.pausedFrom, EventResume)
		if c.k.Timed() {
			c.startTimer()
		}
		return nil
	})
}

// Tick removes one interval from the countdown. Ticks from a cancelled
// timer carry an old generation and are dropped.
func (c *Controller) Tick(generation uint64) {
	_ = c.apply(func() error {
		if generation != c.generation || !c.k.Timed() || !c.running() {
			return nil
		}
		c.tickedAt = c.now()
		if c.spend(c.interval) {
			c.emit(EventTick, c.st.State)
		}
		return nil
	})
}

// Finish ends the session early from any state but finished.
func (c *Controller) Finish(reason models.FinishReason) error {
	return c.apply(func() error {
		if c.st.State == models.StateFinished {
			return c.reject(EventFinish)
		}
		c.finish(reason)
		return nil
	})
}

// Subscribe registers fn for every future transition and returns a
// function that removes it.
func (c *Controller) Subscribe(fn func(Transition)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() models.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.State
}

// Generation identifies the live timer. It changes whenever a timer is
// started or cancelled.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// LastActivity is the time of the last player-driven event.
func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Err returns the generation error that ended the session, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) act(fn func() error) error {
	return c.apply(func() error {
		c.lastActive = c.now()
		return fn()
	})
}

func (c *Controller) apply(fn func() error) error {
	c.mu.Lock()
	err := fn()
	events := c.queue
	c.queue = nil
	subs := append([]subscriber(nil), c.subs...)
	c.mu.Unlock()

	for _, t := range events {
		for _, s := range subs {
			s.fn(t)
		}
	}
	return err
}

func (c *Controller) reject(event string) error {
	return fmt.Errorf("%w: %s while %s", errors.ErrInvalidTransition, event, c.st.State)
}

func (c *Controller) setState(to models.State, event string) {
	from := c.st.State
	c.st.State = to
	c.log.Debug("%s: %s -> %s", event, from, to)
	c.emit(event, from)
}

func (c *Controller) emit(event string, from models.State) {
	c.queue = append(c.queue, Transition{
		Event:    event,
		From:     from,
		To:       c.st.State,
		At:       c.now(),
		Snapshot: c.snapshotLocked(),
	})
}

func (c *Controller) accepting() bool {
	if c.pending == nil {
		return false
	}
	switch c.st.State {
	case models.StateInputting:
		return true
	case models.StatePlaying:
		return !c.k.ShowsStimulus
	}
	return false
}

func (c *Controller) running() bool {
	switch c.st.State {
	case models.StatePlaying, models.StateShowing, models.StateInputting:
		return true
	}
	return false
}

func (c *Controller) levelUpDue() bool {
	if c.k.LevelUpStreak <= 0 || c.st.Streak%c.k.LevelUpStreak != 0 {
		return false
	}
	return c.k.MaxLevel == 0 || c.st.Level < c.k.MaxLevel
}

func (c *Controller) timing(responseMillis int64) time.Duration {
	switch c.k.TimeBonus {
	case game.TimeBonusCountdown:
		return time.Duration(c.st.TimeRemainingMillis) * time.Millisecond
	case game.TimeBonusLatency:
		return time.Duration(responseMillis) * time.Millisecond
	}
	return 0
}

// next deals a fresh challenge at the current level. It reports false when
// generation failed and the session was finished.
func (c *Controller) next() bool {
	ch, err := c.gen.Generate(c.k.Kind, c.st.Level, c.chain)
	if err != nil {
		c.err = err
		c.log.Error("challenge generation failed: %v", err)
		c.finish(models.FinishContentError)
		return false
	}
	c.seq++
	ch.Seq = c.seq
	if ch.Used != nil {
		c.chain = append([]string(nil), ch.Used...)
	}

	c.pending = &ch
	c.hintShown = false
	c.presentedAt = c.now()
	if c.k.ShowsStimulus {
		c.setState(models.StateShowing, EventChallenge)
	} else {
		c.setState(models.StatePlaying, EventChallenge)
	}
	return true
}

func (c *Controller) finish(reason models.FinishReason) {
	if c.st.State == models.StateFinished {
		return
	}
	c.stopTimer()
	now := c.now()
	c.pending = nil
	c.st.FinishReason = reason
	c.st.FinishedAt = &now
	c.setState(models.StateFinished, EventFinish)
	c.log.Info("session finished: reason=%s score=%d level=%d", reason, c.st.Score, c.st.Level)
}

// charge spends the time played since the last tick, at most one interval.
func (c *Controller) charge() bool {
	elapsed := c.now().Sub(c.tickedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > c.interval {
		elapsed = c.interval
	}
	return c.spend(elapsed)
}

// spend takes d off the countdown and reports false once it ran out and the
// session finished.
func (c *Controller) spend(d time.Duration) bool {
	c.st.TimeRemainingMillis -= d.Milliseconds()
	if c.st.TimeRemainingMillis > 0 {
		return true
	}
	c.st.TimeRemainingMillis = 0
	c.finish(models.FinishTimeUp)
	return false
}

func (c *Controller) startTimer() {
	c.stopTimer()
	c.tickedAt = c.now()
	gen := c.generation
	c.timer = c.newTimer(c.interval, func() { c.Tick(gen) })
}

func (c *Controller) stopTimer() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	st := c.st
	st.Events = append([]models.AnswerEvent{}, c.st.Events...)
	if c.st.FinishedAt != nil {
		t := *c.st.FinishedAt
		st.FinishedAt = &t
	}
	snap := Snapshot{ID: c.id, Kind: c.k.Kind, State: st}
	if c.pending != nil && c.st.State != models.StatePaused {
		ch := cloneChallenge(*c.pending)
		snap.Challenge = &ch
	}
	return snap
}

// cloneChallenge copies what a player may see. The answer is never handed
// out and the hint only through Hint.
func cloneChallenge(ch models.Challenge) models.Challenge {
	ch.Stimulus = append([]string(nil), ch.Stimulus...)
	ch.Options = append([]string(nil), ch.Options...)
	ch.Used = append([]string(nil), ch.Used...)
	ch.Answer = nil
	ch.Hint = ""
	return ch
}
