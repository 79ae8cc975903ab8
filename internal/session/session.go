// Package session holds the mutable state of one playthrough. A Session is
// owned by the phase controller and is not safe for concurrent use; all
// mutations happen on the event loop that drives the game.
package session

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phishdefender/phish-defender/internal/core"
)

var (
	// ErrNonPositivePoints is returned when AddPoints is called with n <= 0
	ErrNonPositivePoints = errors.New("points must be positive")
	// ErrUnknownPhase is returned for a phase that does not keep a tally
	ErrUnknownPhase = errors.New("unknown phase")
)

// Phase names a scored phase
type Phase string

const (
	Quickfire Phase = "quickfire"
	Inbox     Phase = "inbox"
	Lab       Phase = "lab"
)

// Phases lists the scored phases in play order
var Phases = []Phase{Quickfire, Inbox, Lab}

// Session is the single source of truth for score and results
type Session struct {
	id          string
	score       int
	results     map[Phase]core.Tally
	missedFlags []string
	timeSpent   time.Duration
}

// New creates an empty session with a fresh id
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset returns the session to its zero value under a new id
func (s *Session) Reset() {
	s.id = uuid.NewString()
	s.score = 0
	s.results = make(map[Phase]core.Tally, len(Phases))
	s.missedFlags = nil
	s.timeSpent = 0
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// AddPoints adds n to the score
func (s *Session) AddPoints(n int) error {
	if n <= 0 {
		return fmt.Errorf("add %d points: %w", n, ErrNonPositivePoints)
	}
	s.score += n
	return nil
}

// RecordPhaseResult stores the tally for a phase, replacing any earlier one
func (s *Session) RecordPhaseResult(phase Phase, correct, total int) error {
	if !slices.Contains(Phases, phase) {
		return fmt.Errorf("record result for %q: %w", phase, ErrUnknownPhase)
	}
	s.results[phase] = core.Tally{Correct: correct, Total: total}
	return nil
}

// RecordMissedFlag appends a missed concept
func (s *Session) RecordMissedFlag(flag string) {
	s.missedFlags = append(s.missedFlags, flag)
}

// AddTimeSpent adds d to the time counter
func (s *Session) AddTimeSpent(d time.Duration) {
	if d > 0 {
		s.timeSpent += d
	}
}

// Score returns the cumulative score
func (s *Session) Score() int {
	return s.score
}

// Result returns the tally recorded for a phase, or zero
func (s *Session) Result(phase Phase) core.Tally {
	return s.results[phase]
}

// MissedFlags returns a copy of the missed flags in the order they were missed
func (s *Session) MissedFlags() []string {
	return slices.Clone(s.missedFlags)
}

// TimeSpent returns the accumulated time
func (s *Session) TimeSpent() time.Duration {
	return s.timeSpent
}

// Totals sums the tallies across phases
func (s *Session) Totals() core.Tally {
	var t core.Tally
	for _, p := range Phases {
		r := s.results[p]
		t.Correct += r.Correct
		t.Total += r.Total
	}
	return t
}

// SuccessRate is the rounded percentage of correct answers, 0 when nothing
// was answered
func (s *Session) SuccessRate() int {
	return SuccessRate(s.Totals())
}

// Tier maps the success rate to a skill tier
func (s *Session) Tier() core.SkillTier {
	return TierFor(s.SuccessRate())
}

// TopMissedFlags returns up to n flags by descending miss count. Ties keep
// the order in which the flags were first missed.
func (s *Session) TopMissedFlags(n int) []core.FlagCount {
	counts := make(map[string]int)
	var order []string
	for _, f := range s.missedFlags {
		if counts[f] == 0 {
			order = append(order, f)
		}
		counts[f]++
	}

	out := make([]core.FlagCount, len(order))
	for i, f := range order {
		out[i] = core.FlagCount{Flag: f, Count: counts[f]}
	}
	slices.SortStableFunc(out, func(a, b core.FlagCount) int {
		return b.Count - a.Count
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Scorecard takes a snapshot of the session
func (s *Session) Scorecard(topMissed int) *core.Scorecard {
	return &core.Scorecard{
		SessionID:   s.id,
		Score:       s.score,
		Quickfire:   s.results[Quickfire],
		Inbox:       s.results[Inbox],
		Lab:         s.results[Lab],
		Total:       s.Totals(),
		SuccessRate: s.SuccessRate(),
		Tier:        s.Tier(),
		TopMissed:   s.TopMissedFlags(topMissed),
		TimeSpent:   s.timeSpent,
	}
}

// SuccessRate computes round(100*correct/total), half away from zero
func SuccessRate(t core.Tally) int {
	if t.Total <= 0 || t.Correct <= 0 {
		return 0
	}
	return (200*t.Correct + t.Total) / (2 * t.Total)
}

var tierThresholds = []struct {
	min  int
	tier core.SkillTier
}{
	{90, core.TierExpert},
	{75, core.TierAdvanced},
	{60, core.TierIntermediate},
	{40, core.TierBeginner},
}

// TierFor maps a success rate to its tier
func TierFor(rate int) core.SkillTier {
	for _, t := range tierThresholds {
		if rate >= t.min {
			return t.tier
		}
	}
	return core.TierNovice
}
