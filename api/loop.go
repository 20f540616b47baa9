// File: api/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event loop contract. One loop is the single logical thread of execution
// for every connection bound to it: callbacks posted to a loop run one at
// a time, in FIFO order, and never concurrently with each other.

package api

import (
	"errors"
	"time"
)

// ErrWaitCanceled is reported to a timer callback whose wait was cancelled
// before firing.
var ErrWaitCanceled = errors.New("timer wait canceled")

// ErrLoopClosed is reported to timer callbacks still pending when their
// loop stops.
var ErrLoopClosed = errors.New("event loop closed")

// Loop schedules work and timers for the connections bound to it.
// The loop must outlive every connection bound to it.
type Loop interface {
	// Post schedules fn to run on the loop. Safe to call from any
	// goroutine; never fails and never runs fn on the caller's stack.
	Post(fn func())

	// NewTimer arms a one-shot timer. fn runs on the loop exactly once:
	// with nil after d elapses, with ErrWaitCanceled if cancelled first,
	// or with ErrLoopClosed if the loop stops while the wait is pending.
	NewTimer(d time.Duration, fn func(err error)) Timer

	// Running reports whether the loop is accepting work.
	Running() bool
}

// Timer is a caller-owned handle to a pending one-shot wait.
type Timer interface {
	// Cancel stops the wait. It reports whether cancellation won the race
	// with the timer firing; the callback observes ErrWaitCanceled in
	// that case. Cancelling an already-completed timer is a no-op.
	Cancel() bool
}
