// Package game sequences a playthrough: Start, Quickfire, Inbox, Lab and
// Scorecard, with a Completion overlay between the scored phases.
//
// The Controller is driven from a single event loop. Timer callbacks reach
// it through a Scheduler that runs them on that same loop, and every timer
// is canceled on each exit from the state that started it.
package game

import (
	"fmt"
	"time"

	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/session"
	"go.uber.org/zap"
)

// State is a phase of the game
type State string

const (
	StateStart      State = "start"
	StateQuickfire  State = "quickfire"
	StateInbox      State = "inbox"
	StateLab        State = "lab"
	StateCompletion State = "completion"
	StateScorecard  State = "scorecard"
)

// Settings tune timing and scoring
type Settings struct {
	CountdownTicks  int
	TickInterval    time.Duration
	CompletionDelay time.Duration
	QuickfirePoints int
	InboxPoints     int
	LabPoints       int
	TopMissed       int
}

// DefaultSettings returns the standard game settings
func DefaultSettings() Settings {
	return Settings{
		CountdownTicks:  10,
		TickInterval:    time.Second,
		CompletionDelay: 5 * time.Second,
		QuickfirePoints: 10,
		InboxPoints:     15,
		LabPoints:       15,
		TopMissed:       5,
	}
}

// Completion is the summary shown after a scored phase. It is display
// data only; the session holds the authoritative score.
type Completion struct {
	Phase    session.Phase
	Correct  int
	Total    int
	Score    int
	MaxScore int
	Next     State
}

// Controller is the phase state machine
type Controller struct {
	session  *session.Session
	data     *dataset.Dataset
	sched    Scheduler
	logger   *zap.Logger
	settings Settings

	state        State
	phaseStarted time.Time
	closed       bool

	quickfire *QuickfireRound
	inbox     *InboxRound
	lab       *LabRound

	completion      *Completion
	completionTimer Timer
	completionGen   int
}

// NewController creates a controller in the Start state
func NewController(
	sess *session.Session,
	data *dataset.Dataset,
	sched Scheduler,
	logger *zap.Logger,
	settings Settings,
) *Controller {
	return &Controller{
		session:  sess,
		data:     data,
		sched:    sched,
		logger:   logger,
		settings: settings,
		state:    StateStart,
	}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Session() *session.Session { return c.session }
func (c *Controller) Settings() Settings { return c.settings }
func (c *Controller) Quickfire() *QuickfireRound { return c.quickfire }
func (c *Controller) Inbox() *InboxRound { return c.inbox }
func (c *Controller) Lab() *LabRound { return c.lab }
func (c *Controller) Completion() *Completion { return c.completion }

// Scorecard returns the session snapshot shown on the scorecard screen
func (c *Controller) Scorecard() *core.Scorecard {
	return c.session.Scorecard(c.settings.TopMissed)
}

// Begin leaves the start screen for the quickfire phase
func (c *Controller) Begin() error {
	if c.closed {
		return ErrClosed
	}
	if c.state != StateStart {
		return fmt.Errorf("begin from %s: %w", c.state, ErrInvalidTransition)
	}
	c.enter(StateQuickfire)
	return nil
}

// Answer classifies the current quickfire email
func (c *Controller) Answer(isPhishing bool) (*QuickfireOutcome, error) {
	if err := c.require(StateQuickfire); err != nil {
		return nil, err
	}
	if c.quickfire.state != ItemPresented {
		return nil, ErrAlreadyAnswered
	}
	return c.answerQuickfire(&isPhishing), nil
}

// Act applies an inbox action to an email
func (c *Controller) Act(emailID string, action Action) (*InboxOutcome, error) {
	if err := c.require(StateInbox); err != nil {
		return nil, err
	}
	email, ok := c.inbox.Email(emailID)
	if !ok {
		return nil, fmt.Errorf("%q: %w", emailID, ErrUnknownEmail)
	}
	if _, done := c.inbox.processed[emailID]; done {
		return nil, fmt.Errorf("%q: %w", emailID, ErrAlreadyAnswered)
	}
	decision, err := Decide(email.IsPhishing, action, c.settings.InboxPoints)
	if err != nil {
		return nil, err
	}

	if decision.Correct {
		c.award(decision.Points)
		c.inbox.correct++
	} else {
		c.miss(email.RedFlags...)
	}

	outcome := InboxOutcome{EmailID: emailID, Action: action, Decision: decision}
	c.inbox.processed[emailID] = outcome

	c.logger.Info("Inbox action",
		zap.String("session_id", c.session.ID()),
		zap.String("item", emailID),
		zap.String("action", string(action)),
		zap.Bool("correct", decision.Correct),
		zap.Int("points", decision.Points))

	return &outcome, nil
}

// Submit answers the current lab challenge
func (c *Controller) Submit(value string) (*LabOutcome, error) {
	if err := c.require(StateLab); err != nil {
		return nil, err
	}
	if c.lab.state != ItemPresented {
		return nil, ErrAlreadyAnswered
	}
	ch := c.lab.Current()
	if !ch.HasOption(value) {
		return nil, fmt.Errorf("%q: %w", value, ErrUnknownOption)
	}

	outcome := &LabOutcome{ChallengeID: ch.ID, Answer: value, Correct: value == ch.CorrectAnswer}
	if outcome.Correct {
		outcome.Points = c.settings.LabPoints
		c.award(outcome.Points)
		c.lab.correct++
	} else {
		c.miss(ch.Skill)
	}
	c.lab.state = ItemAnswered
	c.lab.outcome = outcome

	c.logger.Info("Lab answer",
		zap.String("session_id", c.session.ID()),
		zap.String("item", ch.ID),
		zap.Bool("correct", outcome.Correct))

	return outcome, nil
}

// Advance moves past the answered item, or out of the inbox once every
// email has been handled. Leaving the last item of a phase opens the
// Completion overlay.
func (c *Controller) Advance() error {
	if c.closed {
		return ErrClosed
	}
	switch c.state {
	case StateQuickfire:
		r := c.quickfire
		if r.state != ItemAnswered {
			return ErrNotAnswered
		}
		if r.Last() {
			c.finishPhase(session.Quickfire, r.correct, r.Len(), c.settings.QuickfirePoints, StateInbox)
			return nil
		}
		r.index++
		c.presentQuickfire()
	case StateInbox:
		if !c.inbox.Complete() {
			return fmt.Errorf("%d of %d emails handled: %w",
				c.inbox.ProcessedCount(), c.inbox.Len(), ErrPhaseIncomplete)
		}
		c.finishPhase(session.Inbox, c.inbox.correct, c.inbox.Len(), c.settings.InboxPoints, StateLab)
	case StateLab:
		r := c.lab
		if r.state != ItemAnswered {
			return ErrNotAnswered
		}
		if r.Last() {
			c.finishPhase(session.Lab, r.correct, r.Len(), c.settings.LabPoints, StateScorecard)
			return nil
		}
		r.index++
		r.state = ItemPresented
		r.outcome = nil
	default:
		return fmt.Errorf("advance from %s: %w", c.state, ErrNotInPhase)
	}
	return nil
}

// Continue dismisses the Completion overlay before its timer runs out
func (c *Controller) Continue() error {
	if err := c.require(StateCompletion); err != nil {
		return err
	}
	c.leaveCompletion()
	return nil
}

// Restart returns from the scorecard to the start screen with a fresh session
func (c *Controller) Restart() error {
	if c.closed {
		return ErrClosed
	}
	if c.state != StateScorecard {
		return fmt.Errorf("restart from %s: %w", c.state, ErrInvalidTransition)
	}
	c.session.Reset()
	c.quickfire, c.inbox, c.lab, c.completion = nil, nil, nil, nil
	c.state = StateStart

	c.logger.Info("Game restarted", zap.String("session_id", c.session.ID()))
	return nil
}

// Close cancels every pending timer. The controller rejects further input.
func (c *Controller) Close() {
	c.cancelTimers()
	c.closed = true
}

func (c *Controller) require(want State) error {
	if c.closed {
		return ErrClosed
	}
	if c.state != want {
		return fmt.Errorf("%s requested during %s: %w", want, c.state, ErrNotInPhase)
	}
	return nil
}

func (c *Controller) enter(next State) {
	c.cancelTimers()
	prev := c.state
	c.state = next
	c.phaseStarted = c.sched.Now()

	switch next {
	case StateQuickfire:
		c.quickfire = &QuickfireRound{emails: c.data.Quickfire}
		c.presentQuickfire()
	case StateInbox:
		c.inbox = &InboxRound{emails: c.data.Inbox, processed: make(map[string]InboxOutcome)}
	case StateLab:
		c.lab = &LabRound{challenges: c.data.Challenges}
	}

	c.logger.Info("Phase transition",
		zap.String("session_id", c.session.ID()),
		zap.String("from", string(prev)),
		zap.String("phase", string(next)))
}

func (c *Controller) presentQuickfire() {
	r := c.quickfire
	r.stopTimer()
	r.state = ItemPresented
	r.outcome = nil
	r.remaining = c.settings.CountdownTicks
	c.scheduleTick()
}

func (c *Controller) scheduleTick() {
	r := c.quickfire
	gen := r.gen
	r.timer = c.sched.AfterFunc(c.settings.TickInterval, func() { c.tick(gen) })
}

func (c *Controller) tick(gen int) {
	r := c.quickfire
	if c.closed || c.state != StateQuickfire || r == nil || r.gen != gen || r.state != ItemPresented {
		return
	}
	r.timer = nil
	r.remaining--
	if r.remaining > 0 {
		c.scheduleTick()
		return
	}
	c.answerQuickfire(nil)
}

// answerQuickfire records an answer; a nil answer is a timeout and always wrong
func (c *Controller) answerQuickfire(isPhishing *bool) *QuickfireOutcome {
	r := c.quickfire
	r.stopTimer()

	email := r.Current()
	outcome := &QuickfireOutcome{EmailID: email.ID, TimedOut: isPhishing == nil}
	outcome.Correct = isPhishing != nil && *isPhishing == email.IsPhishing

	if outcome.Correct {
		outcome.Points = c.settings.QuickfirePoints
		c.award(outcome.Points)
		r.correct++
	} else {
		c.miss(email.RedFlags...)
	}
	r.state = ItemAnswered
	r.outcome = outcome

	c.logger.Info("Quickfire answer",
		zap.String("session_id", c.session.ID()),
		zap.String("item", email.ID),
		zap.Bool("correct", outcome.Correct),
		zap.Bool("timed_out", outcome.TimedOut))

	return outcome
}

func (c *Controller) finishPhase(phase session.Phase, correct, total, points int, next State) {
	c.cancelTimers()

	if err := c.session.RecordPhaseResult(phase, correct, total); err != nil {
		c.logger.Error("Failed to record phase result", zap.String("phase", string(phase)), zap.Error(err))
	}
	c.session.AddTimeSpent(c.sched.Now().Sub(c.phaseStarted))

	c.completion = &Completion{
		Phase:    phase,
		Correct:  correct,
		Total:    total,
		Score:    correct * points,
		MaxScore: total * points,
		Next:     next,
	}
	c.state = StateCompletion

	c.completionGen++
	gen := c.completionGen
	c.completionTimer = c.sched.AfterFunc(c.settings.CompletionDelay, func() {
		if c.closed || c.state != StateCompletion || c.completionGen != gen {
			return
		}
		c.completionTimer = nil
		c.leaveCompletion()
	})

	c.logger.Info("Phase complete",
		zap.String("session_id", c.session.ID()),
		zap.String("phase", string(phase)),
		zap.Int("correct", correct),
		zap.Int("total", total),
		zap.Int("points", c.completion.Score))
}

func (c *Controller) leaveCompletion() {
	next := c.completion.Next
	c.completion = nil
	c.enter(next)
}

func (c *Controller) cancelTimers() {
	if c.quickfire != nil {
		c.quickfire.stopTimer()
	}
	if c.completionTimer != nil {
		c.completionTimer.Stop()
		c.completionTimer = nil
	}
	c.completionGen++
}

func (c *Controller) award(points int) {
	if err := c.session.AddPoints(points); err != nil {
		c.logger.Error("Failed to award points", zap.Int("points", points), zap.Error(err))
	}
}

func (c *Controller) miss(flags ...string) {
	for _, f := range flags {
		c.session.RecordMissedFlag(f)
	}
}
