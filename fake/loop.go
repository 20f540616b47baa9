// File: fake/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fake implementations for testing and development. Predictable,
// controllable behavior for the loop and socket capabilities.

package fake

import (
	"sync"
	"time"

	"github.com/momentics/hioload-transport/api"
)

// Loop is a manually stepped api.Loop: posted work queues up until the
// test drains it with Step or Drain. This lets tests prove a handler was
// scheduled rather than run on the caller's stack.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	timers []*Timer
	closed bool
}

// NewLoop creates an empty manual loop.
func NewLoop() *Loop { return &Loop{} }

// Post implements api.Loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Running implements api.Loop.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// NewTimer implements api.Loop. The timer never fires on the wall clock;
// tests fire or cancel it explicitly.
func (l *Loop) NewTimer(d time.Duration, fn func(err error)) api.Timer {
	t := &Timer{loop: l, fn: fn, d: d}
	l.mu.Lock()
	l.timers = append(l.timers, t)
	l.mu.Unlock()
	return t
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Step runs the oldest queued callback. Reports false when idle.
func (l *Loop) Step() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.queue[0]
	l.queue = l.queue[1:]
	l.mu.Unlock()
	fn()
	return true
}

// Drain runs queued callbacks until none remain, including callbacks
// queued by the callbacks themselves. Returns the count executed.
func (l *Loop) Drain() int {
	n := 0
	for l.Step() {
		n++
	}
	return n
}

// Timers returns the timers created so far, oldest first.
func (l *Loop) Timers() []*Timer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Timer, len(l.timers))
	copy(out, l.timers)
	return out
}

// Timer is a manually driven api.Timer.
type Timer struct {
	loop *Loop
	fn   func(err error)
	d    time.Duration

	mu       sync.Mutex
	done     bool
	canceled bool
}

// Duration returns the duration the timer was armed with.
func (t *Timer) Duration() time.Duration { return t.d }

// Fire queues the timer callback with err (nil for a normal expiry).
// No-op if the timer already completed.
func (t *Timer) Fire(err error) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.mu.Unlock()
	t.loop.Post(func() { t.fn(err) })
}

// Cancel implements api.Timer.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return false
	}
	t.done = true
	t.canceled = true
	t.mu.Unlock()
	t.loop.Post(func() { t.fn(api.ErrWaitCanceled) })
	return true
}
