package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestManualScheduler_RunsInOrder(t *testing.T) {
	s := NewManualScheduler(epoch)
	var got []string

	s.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	s.AfterFunc(time.Second, func() {
		got = append(got, "a")
		s.AfterFunc(500*time.Millisecond, func() { got = append(got, "a2") })
	})
	stopped := s.AfterFunc(time.Second, func() { got = append(got, "never") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	s.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "a2", "b"}, got)
	assert.Equal(t, epoch.Add(3*time.Second), s.Now())
}

func TestTimerScheduler_PostsToLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop := make(chan func(), 4)
	s := NewTimerScheduler(func(fn func()) { loop <- fn })

	fired := make(chan struct{})
	s.AfterFunc(time.Millisecond, func() { close(fired) })

	select {
	case fn := <-loop:
		fn()
	case <-time.After(time.Second):
		t.Fatal("timer never posted")
	}
	<-fired
}

func TestTimerScheduler_StopAfterPost(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop := make(chan func(), 4)
	s := NewTimerScheduler(func(fn func()) { loop <- fn })

	ran := false
	timer := s.AfterFunc(time.Millisecond, func() { ran = true })

	var fn func()
	select {
	case fn = <-loop:
	case <-time.After(time.Second):
		t.Fatal("timer never posted")
	}

	// canceled on the loop before the posted call is processed
	assert.True(t, timer.Stop())
	fn()
	assert.False(t, ran)
}
