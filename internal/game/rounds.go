package game

import (
	"slices"
	"strings"

	"github.com/phishdefender/phish-defender/internal/core"
)

// ItemState is the sub-state of the item currently on screen
type ItemState int

const (
	ItemPresented ItemState = iota
	ItemAnswered
)

// QuickfireOutcome is the result of one quickfire answer
type QuickfireOutcome struct {
	EmailID  string
	Correct  bool
	TimedOut bool
	Points   int
}

// QuickfireRound tracks progress through the quickfire emails
type QuickfireRound struct {
	emails    []core.Email
	index     int
	state     ItemState
	remaining int
	correct   int
	outcome   *QuickfireOutcome
	timer     Timer
	gen       int
}

func (r *QuickfireRound) Index() int { return r.index }
func (r *QuickfireRound) Len() int { return len(r.emails) }
func (r *QuickfireRound) Current() core.Email { return r.emails[r.index] }
func (r *QuickfireRound) State() ItemState { return r.state }
func (r *QuickfireRound) Remaining() int { return r.remaining }
func (r *QuickfireRound) Correct() int { return r.correct }
func (r *QuickfireRound) Last() bool { return r.index == len(r.emails)-1 }
func (r *QuickfireRound) Outcome() *QuickfireOutcome { return r.outcome }

func (r *QuickfireRound) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

// InboxOutcome is the result of handling one inbox email
type InboxOutcome struct {
	EmailID string
	Action  Action
	Decision
}

// InboxRound tracks which inbox emails have been handled
type InboxRound struct {
	emails    []core.Email
	processed map[string]InboxOutcome
	correct   int
}

// Emails returns all inbox emails in presentation order
func (r *InboxRound) Emails() []core.Email {
	return slices.Clone(r.emails)
}

// Filter returns the emails whose subject, sender or preview contains
// query, ignoring case. An empty query matches everything.
func (r *InboxRound) Filter(query string) []core.Email {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.Emails()
	}
	var out []core.Email
	for _, e := range r.emails {
		if strings.Contains(strings.ToLower(e.Subject), q) ||
			strings.Contains(strings.ToLower(e.Sender), q) ||
			strings.Contains(strings.ToLower(e.Preview), q) {
			out = append(out, e)
		}
	}
	return out
}

// Email looks up an inbox email by id
func (r *InboxRound) Email(id string) (core.Email, bool) {
	for _, e := range r.emails {
		if e.ID == id {
			return e, true
		}
	}
	return core.Email{}, false
}

// Processed returns the outcome for an email that has been handled
func (r *InboxRound) Processed(id string) (InboxOutcome, bool) {
	o, ok := r.processed[id]
	return o, ok
}

func (r *InboxRound) ProcessedCount() int { return len(r.processed) }
func (r *InboxRound) Len() int { return len(r.emails) }
func (r *InboxRound) Correct() int { return r.correct }

// Complete reports whether every email has been handled
func (r *InboxRound) Complete() bool {
	return len(r.processed) == len(r.emails)
}

// LabOutcome is the result of one lab challenge answer
type LabOutcome struct {
	ChallengeID string
	Answer      string
	Correct     bool
	Points      int
}

// LabRound tracks progress through the lab challenges
type LabRound struct {
	challenges []core.Challenge
	index      int
	state      ItemState
	correct    int
	outcome    *LabOutcome
}

func (r *LabRound) Index() int { return r.index }
func (r *LabRound) Len() int { return len(r.challenges) }
func (r *LabRound) Current() core.Challenge { return r.challenges[r.index] }
func (r *LabRound) State() ItemState { return r.state }
func (r *LabRound) Correct() int { return r.correct }
func (r *LabRound) Last() bool { return r.index == len(r.challenges)-1 }
func (r *LabRound) Outcome() *LabOutcome { return r.outcome }
