package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- Fake scheduler ---

type fakeTimer struct {
	fn      func()
	d       time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fire runs the callback even when stopped, mimicking a timer whose
// goroutine was already started when Stop was called.
func (t *fakeTimer) fire() { t.fn() }

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{fn: f, d: d}
	s.timers = append(s.timers, t)
	return t
}

func newTestSlot(t *testing.T) (*Slot, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := NewSlot(0,
		WithAfterFunc(sched.AfterFunc),
		WithClock(func() time.Time { return fixed }),
	)
	return s, sched
}

// --- Tests ---

func TestSlot_SetAndExpire(t *testing.T) {
	s, sched := newTestSlot(t)

	s.Set("Added to cart!", Success)

	msg, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Added to cart!", msg.Text)
	assert.Equal(t, Success, msg.Kind)
	require.Len(t, sched.timers, 1)
	assert.Equal(t, DefaultTTL, sched.timers[0].d)

	sched.timers[0].fire()

	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSlot_NewMessageCancelsPendingClear(t *testing.T) {
	s, sched := newTestSlot(t)

	s.Set("first", Info)
	s.Set("second", Error)

	require.Len(t, sched.timers, 2)
	assert.True(t, sched.timers[0].stopped, "first clear must be cancelled")

	// A stale clear racing past Stop must not erase the newer message.
	sched.timers[0].fire()

	msg, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Text)
	assert.Equal(t, Error, msg.Kind)

	sched.timers[1].fire()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSlot_ClearCancels(t *testing.T) {
	s, sched := newTestSlot(t)

	s.Set("Cart cleared", Info)
	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
	require.Len(t, sched.timers, 1)
	assert.True(t, sched.timers[0].stopped)

	// Clearing twice is harmless.
	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSlot_CloseKeepsMessage(t *testing.T) {
	s, sched := newTestSlot(t)

	s.Set("Quantity updated", Success)
	s.Close()

	msg, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Quantity updated", msg.Text)
	assert.True(t, sched.timers[0].stopped)
}

func TestSlot_RealTimer(t *testing.T) {
	s := NewSlot(20 * time.Millisecond)
	defer s.Close()

	s.Set("short lived", Info)
	_, ok := s.Current()
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := s.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
