package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/game"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/session"
)

// scriptedGenerator deals numbered challenges whose answer is always "7".
// From failAt onwards every call fails.
type scriptedGenerator struct {
	calls  int
	failAt int
}

func (g *scriptedGenerator) Generate(kind models.GameKind, level int, chain []string) (models.Challenge, error) {
	g.calls++
	if g.failAt > 0 && g.calls >= g.failAt {
		return models.Challenge{}, &errors.ContentGenerationError{Kind: string(kind), Level: level, Domain: 1, Needed: 4}
	}
	return models.Challenge{
		Kind:   kind,
		Level:  level,
		Prompt: fmt.Sprintf("q%d", g.calls),
		Hint:   "pick seven",
		Answer: []string{"7"},
	}, nil
}

type stopFunc func()

func (f stopFunc) Stop() { f() }

// manualTimers records every timer the controller starts.
type manualTimers struct {
	mu      sync.Mutex
	ticks   []func()
	stopped int
}

func (m *manualTimers) factory(_ time.Duration, tick func()) session.Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks = append(m.ticks, tick)
	return stopFunc(func() {
		m.mu.Lock()
		m.stopped++
		m.mu.Unlock()
	})
}

func (m *manualTimers) latest() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks[len(m.ticks)-1]
}

func (m *manualTimers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ticks)
}

type ControllerSuite struct {
	suite.Suite
	timers *manualTimers
	gen    *scriptedGenerator
	clock  time.Time
}

func (s *ControllerSuite) SetupTest() {
	s.timers = &manualTimers{}
	s.gen = &scriptedGenerator{}
	s.clock = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *ControllerSuite) constants(kind models.GameKind) game.Constants {
	c, ok := game.DefaultCatalog().Get(kind)
	s.Require().True(ok)
	return c
}

func (s *ControllerSuite) newController(k game.Constants) *session.Controller {
	return session.New("sess-1", k, s.gen,
		session.WithTimerFactory(s.timers.factory),
		session.WithClock(func() time.Time { return s.clock }),
		session.WithLogger(logger.Discard()),
	)
}

func (s *ControllerSuite) playing(k game.Constants) *session.Controller {
	c := s.newController(k)
	s.Require().NoError(c.Start())
	s.Require().NoError(c.Begin())
	return c
}

func answer(values ...string) models.Submission {
	return models.Submission{Values: values, ResponseTimeMillis: 1000}
}

func (s *ControllerSuite) TestLifecycle() {
	c := s.newController(s.constants(models.KindColorTrap))
	s.Equal(models.StateIdle, c.State())

	s.Require().NoError(c.Start())
	s.Equal(models.StateInstructions, c.State())

	s.Require().NoError(c.Begin())
	snap := c.Snapshot()
	s.Equal(models.StatePlaying, snap.State.State)
	s.Equal(0, snap.State.Score)
	s.Equal(1, snap.State.Level)
	s.Equal(3, snap.State.Lives)
	s.Equal(int64(30000), snap.State.TimeRemainingMillis)
	s.Require().NotNil(snap.Challenge)
	s.Equal(1, snap.Challenge.Seq)
	s.Equal(1, s.timers.count())
}

func (s *ControllerSuite) TestRejectsOutOfOrderEvents() {
	c := s.newController(s.constants(models.KindColorTrap))

	s.True(errors.Is(c.Begin(), errors.ErrInvalidTransition))
	s.True(errors.Is(c.Pause(), errors.ErrInvalidTransition))
	s.Require().NoError(c.Start())
	s.True(errors.Is(c.Start(), errors.ErrInvalidTransition))
	s.True(errors.Is(c.Resume(), errors.ErrInvalidTransition))
	s.True(errors.Is(c.StimulusShown(), errors.ErrInvalidTransition))
}

func (s *ControllerSuite) TestCorrectAnswerScores() {
	c := s.playing(s.constants(models.KindColorTrap))

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.False(out.Ignored)
	s.Require().NotNil(out.Event)
	s.True(out.Event.Correct)
	s.Equal(40, out.Event.Points)
	s.Equal(40, out.Snapshot.State.Score)
	s.Equal(1, out.Snapshot.State.Streak)
	s.Equal(2, out.Snapshot.Challenge.Seq)
}

func (s *ControllerSuite) TestWrongAnswerCostsLifeNotScore() {
	c := s.playing(s.constants(models.KindColorTrap))

	_, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	out, err := c.Submit(answer("8"))
	s.Require().NoError(err)

	s.False(out.Event.Correct)
	s.Equal(0, out.Event.Points)
	s.Equal(40, out.Snapshot.State.Score)
	s.Equal(2, out.Snapshot.State.Lives)
	s.Equal(0, out.Snapshot.State.Streak)
	s.Equal(1, out.Snapshot.State.BestStreak)
}

func (s *ControllerSuite) TestMalformedAnswerIsJustWrong() {
	c := s.playing(s.constants(models.KindColorTrap))

	out, err := c.Submit(answer("7", "8"))
	s.Require().NoError(err)
	s.False(out.Event.Correct)
	s.Equal(2, out.Snapshot.State.Lives)
}

func (s *ControllerSuite) TestLevelUpOnStreakThreshold() {
	c := s.playing(s.constants(models.KindColorTrap))

	var last session.Outcome
	for i := 0; i < 5; i++ {
		out, err := c.Submit(answer("7"))
		s.Require().NoError(err)
		if i < 4 {
			s.False(out.LevelUp)
		}
		last = out
	}
	s.True(last.LevelUp)
	s.Equal(2, last.Snapshot.State.Level)
	s.Equal(2, last.Snapshot.Challenge.Level)
}

func (s *ControllerSuite) TestLevelCapsAtMax() {
	k := s.constants(models.KindColorTrap)
	k.LevelUpStreak = 1
	k.MaxLevel = 2
	c := s.playing(k)

	for i := 0; i < 4; i++ {
		_, err := c.Submit(answer("7"))
		s.Require().NoError(err)
	}
	s.Equal(2, c.Snapshot().State.Level)
}

func (s *ControllerSuite) TestOutOfLivesFinishesWithTimeLeft() {
	c := s.playing(s.constants(models.KindColorTrap))

	for i := 0; i < 3; i++ {
		_, err := c.Submit(answer("8"))
		s.Require().NoError(err)
	}
	snap := c.Snapshot()
	s.Equal(models.StateFinished, snap.State.State)
	s.Equal(models.FinishOutOfLives, snap.State.FinishReason)
	s.Equal(0, snap.State.Lives)
	s.Greater(snap.State.TimeRemainingMillis, int64(0))
	s.Nil(snap.Challenge)
	s.Equal(1, s.timers.stopped)

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.True(out.Ignored)
}

func (s *ControllerSuite) TestCountdownFinishesWithLivesLeft() {
	c := s.playing(s.constants(models.KindColorTrap))
	tick := s.timers.latest()

	for i := 0; i < 29; i++ {
		tick()
	}
	s.Equal(models.StatePlaying, c.State())
	s.Equal(int64(1000), c.Snapshot().State.TimeRemainingMillis)

	tick()
	snap := c.Snapshot()
	s.Equal(models.StateFinished, snap.State.State)
	s.Equal(models.FinishTimeUp, snap.State.FinishReason)
	s.Equal(3, snap.State.Lives)

	tick()
	s.Equal(int64(0), c.Snapshot().State.TimeRemainingMillis)
}

func (s *ControllerSuite) TestRoundsFinishSession() {
	k := s.constants(models.KindDotDash)
	c := s.playing(k)

	for i := 0; i < k.TotalRounds; i++ {
		s.Require().Equal(models.StateShowing, c.State(), "round %d", i)
		s.Require().NoError(c.StimulusShown())
		_, err := c.Submit(answer("7"))
		s.Require().NoError(err)
	}
	snap := c.Snapshot()
	s.Equal(models.StateFinished, snap.State.State)
	s.Equal(models.FinishRoundsComplete, snap.State.FinishReason)
	s.Equal(k.TotalRounds, snap.State.RoundIndex)
	s.Len(snap.State.Events, k.TotalRounds)
	s.Equal(0, s.timers.count())
}

func (s *ControllerSuite) TestInputDuringShowingIsIgnored() {
	c := s.playing(s.constants(models.KindDotDash))
	s.Equal(models.StateShowing, c.State())

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.True(out.Ignored)
	s.Empty(out.Snapshot.State.Events)

	s.Require().NoError(c.StimulusShown())
	out, err = c.Submit(answer("7"))
	s.Require().NoError(err)
	s.False(out.Ignored)
	s.True(out.Event.Correct)
}

func (s *ControllerSuite) TestStaleSubmissionIsIgnored() {
	c := s.playing(s.constants(models.KindColorTrap))

	sub := answer("7")
	sub.Seq = 7
	out, err := c.Submit(sub)
	s.Require().NoError(err)
	s.True(out.Ignored)

	sub.Seq = 1
	out, err = c.Submit(sub)
	s.Require().NoError(err)
	s.False(out.Ignored)
}

func (s *ControllerSuite) TestPauseResumeKeepsChallenge() {
	c := s.playing(s.constants(models.KindColorTrap))
	before := c.Snapshot().Challenge
	s.Require().NotNil(before)
	staleTick := s.timers.latest()
	remaining := c.Snapshot().State.TimeRemainingMillis

	s.Require().NoError(c.Pause())
	s.Equal(1, s.timers.stopped)
	s.Nil(c.Snapshot().Challenge)

	staleTick()
	s.Equal(remaining, c.Snapshot().State.TimeRemainingMillis)

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.True(out.Ignored)

	s.Require().NoError(c.Resume())
	after := c.Snapshot().Challenge
	s.Equal(before, after)
	s.Equal(models.StatePlaying, c.State())
	s.Equal(2, s.timers.count())

	staleTick()
	s.Equal(remaining, c.Snapshot().State.TimeRemainingMillis)
	s.timers.latest()()
	s.Equal(remaining-1000, c.Snapshot().State.TimeRemainingMillis)
}

func (s *ControllerSuite) TestRapidPauseResumeLeavesOneLiveTimer() {
	c := s.playing(s.constants(models.KindColorTrap))
	for i := 0; i < 5; i++ {
		s.Require().NoError(c.Pause())
		s.Require().NoError(c.Resume())
	}
	for i := 0; i < s.timers.count()-1; i++ {
		s.timers.ticks[i]()
	}
	s.Equal(int64(30000), c.Snapshot().State.TimeRemainingMillis)

	s.timers.latest()()
	s.Equal(int64(29000), c.Snapshot().State.TimeRemainingMillis)
}

func (s *ControllerSuite) TestPauseChargesPartialInterval() {
	c := s.playing(s.constants(models.KindColorTrap))

	s.clock = s.clock.Add(700 * time.Millisecond)
	s.Require().NoError(c.Pause())
	s.Equal(int64(29300), c.Snapshot().State.TimeRemainingMillis)

	s.clock = s.clock.Add(time.Minute)
	s.Require().NoError(c.Resume())
	s.Equal(int64(29300), c.Snapshot().State.TimeRemainingMillis)

	s.clock = s.clock.Add(400 * time.Millisecond)
	s.timers.latest()()
	s.Equal(int64(28300), c.Snapshot().State.TimeRemainingMillis)

	s.clock = s.clock.Add(250 * time.Millisecond)
	s.Require().NoError(c.Pause())
	s.Equal(int64(28050), c.Snapshot().State.TimeRemainingMillis)
}

func (s *ControllerSuite) TestPauseResumeCannotStallCountdown() {
	c := s.playing(s.constants(models.KindColorTrap))

	for i := 0; i < 100 && c.State() != models.StateFinished; i++ {
		s.clock = s.clock.Add(900 * time.Millisecond)
		s.Require().NoError(c.Pause())
		if c.State() == models.StateFinished {
			break
		}
		s.Require().NoError(c.Resume())
	}

	snap := c.Snapshot()
	s.Equal(models.StateFinished, snap.State.State)
	s.Equal(models.FinishTimeUp, snap.State.FinishReason)
	s.Equal(int64(0), snap.State.TimeRemainingMillis)
}

func (s *ControllerSuite) TestSnapshotHidesAnswerAndHint() {
	c := s.playing(s.constants(models.KindColorTrap))

	var seen []*models.Challenge
	cancel := c.Subscribe(func(t session.Transition) { seen = append(seen, t.Snapshot.Challenge) })
	defer cancel()

	snap := c.Snapshot()
	s.Require().NotNil(snap.Challenge)
	s.Empty(snap.Challenge.Answer)
	s.Empty(snap.Challenge.Hint)

	hint, err := c.Hint()
	s.Require().NoError(err)
	s.Equal("pick seven", hint)

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.True(out.Event.Correct)
	s.Require().NotNil(out.Snapshot.Challenge)
	s.Empty(out.Snapshot.Challenge.Answer)

	s.Require().NotEmpty(seen)
	for _, ch := range seen {
		if ch != nil {
			s.Empty(ch.Answer)
			s.Empty(ch.Hint)
		}
	}
}

func (s *ControllerSuite) TestPauseFromInputtingResumesInputting() {
	c := s.playing(s.constants(models.KindSequenceSense))
	s.Require().NoError(c.StimulusShown())
	s.Require().NoError(c.Pause())
	s.Require().NoError(c.Resume())
	s.Equal(models.StateInputting, c.State())

	s.Require().NoError(c.Pause())
	s.True(errors.Is(c.Pause(), errors.ErrInvalidTransition))
}

func (s *ControllerSuite) TestCannotPauseWhileShowing() {
	c := s.playing(s.constants(models.KindDotDash))
	s.True(errors.Is(c.Pause(), errors.ErrInvalidTransition))
}

func (s *ControllerSuite) TestHintPenalty() {
	k := s.constants(models.KindMathMaster)
	c := s.playing(k)

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	full := out.Event.Points

	hint, err := c.Hint()
	s.Require().NoError(err)
	s.Equal("pick seven", hint)

	out, err = c.Submit(answer("7"))
	s.Require().NoError(err)
	s.True(out.Event.HintUsed)
	s.Less(out.Event.Points, full+k.StreakUnit)
	s.Equal(game.Points(1, 1, time.Second, true, k), out.Event.Points)
}

func (s *ControllerSuite) TestGeneratorFailureOnBegin() {
	s.gen.failAt = 1
	c := s.playing(s.constants(models.KindColorTrap))

	snap := c.Snapshot()
	s.Equal(models.StateFinished, snap.State.State)
	s.Equal(models.FinishContentError, snap.State.FinishReason)
	s.True(errors.Is(c.Err(), errors.ErrContentGeneration))
	s.Equal(0, s.timers.count())
}

func (s *ControllerSuite) TestGeneratorFailureMidSession() {
	s.gen.failAt = 3
	c := s.playing(s.constants(models.KindColorTrap))

	_, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.Equal(models.StatePlaying, c.State())

	out, err := c.Submit(answer("7"))
	s.Require().NoError(err)
	s.Equal(models.StateFinished, out.Snapshot.State.State)
	s.Equal(models.FinishContentError, out.Snapshot.State.FinishReason)
	s.Equal(80, out.Snapshot.State.Score)
	s.Equal(3, s.gen.calls)
}

func (s *ControllerSuite) TestScoreNeverDecreases() {
	c := s.playing(s.constants(models.KindColorTrap))
	prev := 0
	for i, v := range []string{"7", "8", "7", "7", "8", "7", "8"} {
		out, err := c.Submit(answer(v))
		s.Require().NoError(err)
		if out.Ignored {
			break
		}
		s.GreaterOrEqual(out.Snapshot.State.Score, prev, "answer %d", i)
		prev = out.Snapshot.State.Score
	}
	s.Equal(models.StateFinished, c.State())
}

func (s *ControllerSuite) TestFinishIsTerminal() {
	c := s.playing(s.constants(models.KindColorTrap))
	s.Require().NoError(c.Finish(models.FinishQuit))
	s.Equal(models.FinishQuit, c.Snapshot().State.FinishReason)

	s.True(errors.Is(c.Finish(models.FinishQuit), errors.ErrInvalidTransition))
	s.True(errors.Is(c.Start(), errors.ErrInvalidTransition))
	s.True(errors.Is(c.Begin(), errors.ErrInvalidTransition))
}

func (s *ControllerSuite) TestSubscribersSeeTransitions() {
	c := s.newController(s.constants(models.KindColorTrap))

	var events []string
	var last session.Transition
	cancel := c.Subscribe(func(t session.Transition) {
		events = append(events, t.Event)
		last = t
	})

	s.Require().NoError(c.Start())
	s.Require().NoError(c.Begin())
	s.Require().NoError(c.Finish(models.FinishQuit))

	s.Equal([]string{session.EventStart, session.EventBegin, session.EventChallenge, session.EventFinish}, events)
	s.Equal(models.StatePlaying, last.From)
	s.Equal(models.StateFinished, last.To)
	s.Equal(models.StateFinished, last.Snapshot.State.State)

	cancel()
	s.timers.latest()()
	s.Len(events, 4)
}

func (s *ControllerSuite) TestServerMeasuredResponseTime() {
	c := s.playing(s.constants(models.KindReactionTime))
	s.clock = s.clock.Add(150 * time.Millisecond)

	out, err := c.Submit(models.Submission{Values: []string{"7"}})
	s.Require().NoError(err)
	s.Equal(int64(150), out.Event.ResponseTimeMillis)
	s.True(out.Event.Correct)
	s.Equal(60, out.Event.Points)
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func TestWordChainCarriesAcceptedWords(t *testing.T) {
	k, ok := game.DefaultCatalog().Get(models.KindWordChain)
	require.True(t, ok)
	c := session.New("chain", k, game.NewSeededGenerator(5, 6),
		session.WithTimerFactory(func(time.Duration, func()) session.Stopper { return stopFunc(func() {}) }),
		session.WithLogger(logger.Discard()),
	)
	require.NoError(t, c.Start())
	require.NoError(t, c.Begin())

	first := c.Snapshot().Challenge
	require.NotNil(t, first)
	word := first.Prompt[len(first.Prompt)-1:] + "abc"

	out, err := c.Submit(models.Submission{Values: []string{word}, ResponseTimeMillis: 500})
	require.NoError(t, err)
	require.True(t, out.Event.Correct)

	next := out.Snapshot.Challenge
	require.NotNil(t, next)
	assert.Equal(t, word, next.Prompt)
	assert.Equal(t, append(append([]string{}, first.Used...), word), next.Used)

	out, err = c.Submit(models.Submission{Values: []string{word}, ResponseTimeMillis: 500})
	require.NoError(t, err)
	assert.False(t, out.Event.Correct)
	assert.Equal(t, word, out.Snapshot.Challenge.Prompt)
}

func TestNewTickerStops(t *testing.T) {
	var mu sync.Mutex
	n := 0
	stop := session.NewTicker(2*time.Millisecond, func() {
		mu.Lock()
		n++
		mu.Unlock()
	})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n >= 2
	}, time.Second, time.Millisecond)
	stop.Stop()
	stop.Stop()
}
