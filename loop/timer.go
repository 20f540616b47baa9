// File: loop/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-shot timers whose callbacks run on the owning loop. Fire, cancel
// and loop-shutdown race through a single atomic state word so the
// callback observes exactly one outcome.

package loop

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-transport/api"
)

const (
	timerPending int32 = iota
	timerFired
	timerCanceled
	timerFailed
)

type timer struct {
	loop  *Loop
	t     *time.Timer
	fn    func(err error)
	state int32
}

// NewTimer implements api.Loop.
func (l *Loop) NewTimer(d time.Duration, fn func(err error)) api.Timer {
	tm := &timer{loop: l, fn: fn}
	l.mu.Lock()
	l.timers[tm] = struct{}{}
	l.mu.Unlock()

	tm.t = time.AfterFunc(d, func() {
		if !atomic.CompareAndSwapInt32(&tm.state, timerPending, timerFired) {
			return
		}
		l.forget(tm)
		l.Post(func() { tm.fn(nil) })
	})
	return tm
}

// Cancel implements api.Timer.
func (tm *timer) Cancel() bool {
	if !atomic.CompareAndSwapInt32(&tm.state, timerPending, timerCanceled) {
		return false
	}
	tm.t.Stop()
	tm.loop.forget(tm)
	tm.loop.Post(func() { tm.fn(api.ErrWaitCanceled) })
	return true
}

// fail completes a still-pending timer with err. Used when the loop stops.
func (tm *timer) fail(err error) {
	if !atomic.CompareAndSwapInt32(&tm.state, timerPending, timerFailed) {
		return
	}
	tm.t.Stop()
	tm.loop.forget(tm)
	tm.loop.Post(func() { tm.fn(err) })
}

func (l *Loop) forget(tm *timer) {
	l.mu.Lock()
	delete(l.timers, tm)
	l.mu.Unlock()
}
