package game

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a pending scheduled call
type Timer interface {
	// Stop cancels the call. It reports whether the call was still pending.
	Stop() bool
}

// Scheduler runs delayed calls on the goroutine that drives the controller
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// TimerScheduler schedules with the runtime clock. Expired calls are handed
// to post, which must run them on the controller's event loop.
type TimerScheduler struct {
	post func(func())
}

// NewTimerScheduler creates a scheduler that delivers expired calls through post
func NewTimerScheduler(post func(func())) *TimerScheduler {
	return &TimerScheduler{post: post}
}

// Now returns the wall clock time
func (s *TimerScheduler) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn after d
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &runtimeTimer{}
	t.timer = time.AfterFunc(d, func() {
		if t.canceled.Load() {
			return
		}
		s.post(func() {
			// Stop may have run on the loop after the runtime timer fired.
			if t.canceled.Load() {
				return
			}
			fn()
		})
	})
	return t
}

type runtimeTimer struct {
	timer    *time.Timer
	canceled atomic.Bool
}

func (t *runtimeTimer) Stop() bool {
	wasPending := !t.canceled.Swap(true)
	t.timer.Stop()
	return wasPending
}

// ManualScheduler is a deterministic scheduler whose clock only moves when
// Advance is called. Calls run synchronously inside Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*manualTimer
}

// NewManualScheduler creates a manual scheduler starting at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the scheduler's clock
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// AfterFunc schedules fn at Now()+d
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{owner: s, at: s.now.Add(d), seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Pending returns the number of scheduled calls that have not run
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Advance moves the clock forward by d, running every call that comes due
// in time order. Calls scheduled while advancing run too if they fall
// inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].at.Equal(s.pending[j].at) {
				return s.pending[i].seq < s.pending[j].seq
			}
			return s.pending[i].at.Before(s.pending[j].at)
		})
		if len(s.pending) == 0 || s.pending[0].at.After(target) {
			s.now = target
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.now = next.at
		s.mu.Unlock()

		next.fn()
	}
}

type manualTimer struct {
	owner *ManualScheduler
	at    time.Time
	seq   int
	fn    func()
}

func (t *manualTimer) Stop() bool {
	s := t.owner
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}
