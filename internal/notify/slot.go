// Package notify implements a single-slot, auto-expiring status message.
//
// A Slot holds at most one message. Setting a message schedules exactly one
// deferred clear; setting another message before it fires cancels the pending
// clear and schedules a new one, so a stale clear never erases a newer message.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays visible when no TTL is configured.
const DefaultTTL = 2 * time.Second

// Kind is the semantic category of a message.
type Kind string

const (
	// Info is a neutral status message.
	Info Kind = "info"
	// Success reports a completed operation.
	Success Kind = "success"
	// Error reports a rejected operation.
	Error Kind = "error"
)

// Message is a single human-readable status message.
type Message struct {
	Text string
	Kind Kind
	At   time.Time
}

// Timer is the cancellable handle returned by a scheduling function.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures a Slot.
type Option func(*Slot)

// WithAfterFunc overrides the scheduler, mostly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Slot) { s.afterFunc = fn }
}

// WithClock overrides the clock used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Slot) { s.now = now }
}

// Slot is a Notifier holding at most one current message. It is safe for
// concurrent use; the scheduled clear runs on its own goroutine.
type Slot struct {
	ttl       time.Duration
	afterFunc AfterFunc
	now       func() time.Time

	mu      sync.Mutex
	current *Message
	timer   Timer
	// gen is bumped on every Set and Clear. A scheduled clear only applies
	// if the generation it captured is still current.
	gen uint64
}

// NewSlot returns an empty Slot whose messages expire after ttl. A
// non-positive ttl selects DefaultTTL.
func NewSlot(ttl time.Duration, opts ...Option) *Slot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Slot{
		ttl: ttl,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Set replaces the current message and reschedules its expiry.
func (s *Slot) Set(text string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.current = &Message{Text: text, Kind: kind, At: s.now()}
	s.timer = s.afterFunc(s.ttl, func() { s.expire(gen) })
}

// Clear removes the current message and cancels its pending expiry.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	s.current = nil
}

// Current returns the visible message, if any.
func (s *Slot) Current() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Message{}, false
	}
	return *s.current, true
}

// Close cancels the pending expiry without touching the current message.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Slot) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.current = nil
	s.timer = nil
}

func (s *Slot) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
