package game

import (
	"strings"
	"testing"
	"time"

	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestController(t *testing.T) (*Controller, *ManualScheduler) {
	t.Helper()
	ds, err := dataset.Embedded()
	require.NoError(t, err)

	sched := NewManualScheduler(epoch)
	c := NewController(session.New(), ds, sched, zap.NewNop(), DefaultSettings())
	t.Cleanup(c.Close)
	return c, sched
}

// playQuickfire answers every quickfire email, getting the first nCorrect right
func playQuickfire(t *testing.T, c *Controller, nCorrect int) {
	t.Helper()
	r := c.Quickfire()
	for i := 0; i < r.Len(); i++ {
		email := r.Current()
		answer := email.IsPhishing
		if i >= nCorrect {
			answer = !answer
		}
		_, err := c.Answer(answer)
		require.NoError(t, err)
		require.NoError(t, c.Advance())
	}
}

func TestController_QuickfireScenario(t *testing.T) {
	c, sched := newTestController(t)
	require.NoError(t, c.Begin())
	assert.Equal(t, StateQuickfire, c.State())

	r := c.Quickfire()
	for i := 0; i < r.Len(); i++ {
		email := r.Current()
		answer := email.IsPhishing
		if i >= 6 {
			answer = !answer
		}
		_, err := c.Answer(answer)
		require.NoError(t, err)

		if i < r.Len()-1 {
			require.NoError(t, c.Advance())
			assert.Equal(t, StateQuickfire, c.State(), "still in quickfire after item %d", i)
		}
	}

	assert.Equal(t, StateQuickfire, c.State())
	require.NoError(t, c.Advance())

	require.Equal(t, StateCompletion, c.State())
	comp := c.Completion()
	assert.Equal(t, 60, comp.Score)
	assert.Equal(t, 100, comp.MaxScore)
	assert.Equal(t, StateInbox, comp.Next)
	assert.Equal(t, 60, c.Session().Score())
	assert.Equal(t, core.Tally{Correct: 6, Total: 10}, c.Session().Result(session.Quickfire))

	// the overlay waits for its timer
	sched.Advance(4 * time.Second)
	assert.Equal(t, StateCompletion, c.State())
	sched.Advance(time.Second)
	assert.Equal(t, StateInbox, c.State())
}

func TestController_CompletionContinueCancelsTimer(t *testing.T) {
	c, sched := newTestController(t)
	require.NoError(t, c.Begin())
	playQuickfire(t, c, 10)
	require.Equal(t, StateCompletion, c.State())

	require.NoError(t, c.Continue())
	assert.Equal(t, StateInbox, c.State())
	assert.Equal(t, 0, sched.Pending())

	// a late firing would skip the inbox
	sched.Advance(10 * time.Second)
	assert.Equal(t, StateInbox, c.State())
}

func TestController_CountdownForcesWrongAnswer(t *testing.T) {
	c, sched := newTestController(t)
	require.NoError(t, c.Begin())

	r := c.Quickfire()
	email := r.Current()
	require.True(t, email.IsPhishing)
	assert.Equal(t, 10, r.Remaining())

	sched.Advance(9 * time.Second)
	assert.Equal(t, 1, r.Remaining())
	assert.Equal(t, ItemPresented, r.State())

	sched.Advance(time.Second)
	assert.Equal(t, ItemAnswered, r.State())
	require.NotNil(t, r.Outcome())
	assert.True(t, r.Outcome().TimedOut)
	assert.False(t, r.Outcome().Correct)
	assert.Zero(t, c.Session().Score())
	assert.Equal(t, email.RedFlags, c.Session().MissedFlags())

	_, err := c.Answer(true)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, 0, sched.Pending())
}

func TestController_AnswerCancelsCountdown(t *testing.T) {
	c, sched := newTestController(t)
	require.NoError(t, c.Begin())

	sched.Advance(3 * time.Second)
	out, err := c.Answer(c.Quickfire().Current().IsPhishing)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Minute)
	assert.Equal(t, 10, c.Session().Score())
	assert.Empty(t, c.Session().MissedFlags())

	require.NoError(t, c.Advance())
	assert.Equal(t, 10, c.Quickfire().Remaining())
	assert.Equal(t, 1, sched.Pending())
}

func TestController_AdvanceRequiresAnswer(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.Begin())
	assert.ErrorIs(t, c.Advance(), ErrNotAnswered)
}

func TestController_InboxDecisions(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.Begin())
	playQuickfire(t, c, 10)
	require.NoError(t, c.Continue())
	require.Equal(t, StateInbox, c.State())

	inbox := c.Inbox()
	before := c.Session().Score()

	// in1 legitimate, in6 phishing, in8 phishing, in10 phishing
	out, err := c.Act("in1", ActionOpen)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 15, out.Points)

	out, err = c.Act("in6", ActionReport)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.True(t, out.Best)

	out, err = c.Act("in8", ActionDelete)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.False(t, out.Best)
	assert.Equal(t, 15, out.Points)

	out, err = c.Act("in10", ActionOpen)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Zero(t, out.Points)

	email, _ := inbox.Email("in10")
	assert.Equal(t, email.RedFlags, c.Session().MissedFlags())
	assert.Equal(t, before+45, c.Session().Score())

	_, err = c.Act("in1", ActionReport)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	_, err = c.Act("nope", ActionOpen)
	assert.ErrorIs(t, err, ErrUnknownEmail)
	_, err = c.Act("in2", Action("forward"))
	assert.ErrorIs(t, err, ErrUnknownAction)

	assert.ErrorIs(t, c.Advance(), ErrPhaseIncomplete)
	assert.Equal(t, 4, inbox.ProcessedCount())
}

func TestController_FullPlaythroughAndRestart(t *testing.T) {
	c, sched := newTestController(t)
	require.NoError(t, c.Begin())

	summaries := 0

	playQuickfire(t, c, 7)
	summaries += c.Completion().Score
	sched.Advance(2 * time.Second)
	require.NoError(t, c.Continue())

	for _, e := range c.Inbox().Emails() {
		action := ActionOpen
		if e.IsPhishing {
			action = ActionReport
		}
		_, err := c.Act(e.ID, action)
		require.NoError(t, err)
	}
	sched.Advance(30 * time.Second)
	require.NoError(t, c.Advance())
	require.Equal(t, StateCompletion, c.State())
	summaries += c.Completion().Score
	sched.Advance(5 * time.Second)
	require.Equal(t, StateLab, c.State())

	lab := c.Lab()
	for i := 0; i < lab.Len(); i++ {
		ch := lab.Current()
		answer := ch.CorrectAnswer
		if i == 0 {
			for _, o := range ch.Options {
				if o.Value != ch.CorrectAnswer {
					answer = o.Value
					break
				}
			}
		}
		_, err := c.Submit(answer)
		require.NoError(t, err)
		_, err = c.Submit(answer)
		assert.ErrorIs(t, err, ErrAlreadyAnswered)
		require.NoError(t, c.Advance())
	}
	require.Equal(t, StateCompletion, c.State())
	assert.Equal(t, StateScorecard, c.Completion().Next)
	summaries += c.Completion().Score
	require.NoError(t, c.Continue())
	require.Equal(t, StateScorecard, c.State())

	awarded := c.Session().Score()
	assert.Equal(t, summaries, awarded)
	assert.Equal(t, 70+150+60, awarded)

	card := c.Scorecard()
	assert.Equal(t, core.Tally{Correct: 21, Total: 25}, card.Total)
	assert.Equal(t, 84, card.SuccessRate)
	assert.Equal(t, core.TierAdvanced, card.Tier)
	assert.Equal(t, 30*time.Second, card.TimeSpent)
	assert.NotEmpty(t, card.TopMissed)

	firstID := c.Session().ID()
	require.NoError(t, c.Restart())
	assert.Equal(t, StateStart, c.State())
	assert.Zero(t, c.Session().Score())
	for _, p := range session.Phases {
		assert.Equal(t, core.Tally{}, c.Session().Result(p))
	}
	assert.Empty(t, c.Session().MissedFlags())
	assert.NotEqual(t, firstID, c.Session().ID())
}

func TestController_TransitionsAreForwardOnly(t *testing.T) {
	c, _ := newTestController(t)

	assert.ErrorIs(t, c.Restart(), ErrInvalidTransition)
	assert.ErrorIs(t, c.Continue(), ErrNotInPhase)
	_, err := c.Answer(true)
	assert.ErrorIs(t, err, ErrNotInPhase)

	require.NoError(t, c.Begin())
	assert.ErrorIs(t, c.Begin(), ErrInvalidTransition)
	_, err = c.Submit("a")
	assert.ErrorIs(t, err, ErrNotInPhase)
}

func TestController_LabRejectsUnknownOption(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.Begin())
	playQuickfire(t, c, 0)
	require.NoError(t, c.Continue())
	for _, e := range c.Inbox().Emails() {
		_, err := c.Act(e.ID, ActionDelete)
		require.NoError(t, err)
	}
	require.NoError(t, c.Advance())
	require.NoError(t, c.Continue())
	require.Equal(t, StateLab, c.State())

	_, err := c.Submit("z")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.ErrorIs(t, c.Advance(), ErrNotAnswered)

	out, err := c.Submit(c.Lab().Current().CorrectAnswer)
	require.NoError(t, err)
	assert.Equal(t, 15, out.Points)
	assert.Equal(t, 1, c.Lab().Correct())
}

func TestController_CloseCancelsTimers(t *testing.T) {
	c, sched := newTestController(t)
	require.NoError(t, c.Begin())
	require.Equal(t, 1, sched.Pending())

	c.Close()
	assert.Equal(t, 0, sched.Pending())
	sched.Advance(time.Minute)
	assert.Equal(t, ItemPresented, c.Quickfire().State())

	_, err := c.Answer(true)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInboxRound_Filter(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.Begin())
	playQuickfire(t, c, 10)
	require.NoError(t, c.Continue())

	r := c.Inbox()
	assert.Len(t, r.Filter(""), r.Len())
	assert.Len(t, r.Filter("   "), r.Len())
	assert.Empty(t, r.Filter("no-such-text-anywhere"))

	first := r.Emails()[0]
	got := r.Filter(" " + strings.ToUpper(first.Subject) + " ")
	require.NotEmpty(t, got)
	assert.Equal(t, first.ID, got[0].ID)

	for _, e := range r.Filter(first.Sender) {
		assert.Contains(t, strings.ToLower(e.Subject+e.Sender+e.Preview), strings.ToLower(first.Sender))
	}
}
