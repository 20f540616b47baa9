// File: loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-goroutine event loop. All callbacks posted to one loop run in
// FIFO order on one goroutine, which is the serialization guarantee the
// transport connection builds its no-locking design on.

package loop

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-transport/api"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateDraining
	stateStopped
)

// Loop implements api.Loop over a mutex-guarded FIFO drained by Run.
type Loop struct {
	mu    sync.Mutex
	cond  *sync.Cond
	tasks *queue.Queue
	state int32

	timers map[*timer]struct{}
	done   chan struct{}
}

// New creates a loop. Run must be called on a dedicated goroutine before
// posted work executes.
func New() *Loop {
	l := &Loop{
		tasks:  queue.New(),
		timers: make(map[*timer]struct{}),
		done:   make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post implements api.Loop. Work posted after the loop has fully stopped
// is dropped; the loop is expected to outlive everything bound to it.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if atomic.LoadInt32(&l.state) == stateStopped {
		l.mu.Unlock()
		return
	}
	l.tasks.Add(fn)
	l.cond.Signal()
	l.mu.Unlock()
}

// Running implements api.Loop.
func (l *Loop) Running() bool {
	return atomic.LoadInt32(&l.state) == stateRunning
}

// Run drains the task queue until Stop is called and the queue is empty.
// It is the loop's single execution goroutine.
func (l *Loop) Run() {
	if !atomic.CompareAndSwapInt32(&l.state, stateIdle, stateRunning) {
		return
	}
	defer close(l.done)
	for {
		l.mu.Lock()
		for l.tasks.Length() == 0 {
			if atomic.LoadInt32(&l.state) == stateDraining {
				atomic.StoreInt32(&l.state, stateStopped)
				l.mu.Unlock()
				return
			}
			l.cond.Wait()
		}
		fn := l.tasks.Remove().(func())
		l.mu.Unlock()
		runTask(fn)
	}
}

// Stop fails every pending timer with api.ErrLoopClosed, lets already
// posted work drain, then waits for Run to exit. Idempotent.
func (l *Loop) Stop() {
	// A loop whose Run goroutine has not started yet must not start later.
	if atomic.CompareAndSwapInt32(&l.state, stateIdle, stateStopped) {
		return
	}
	l.mu.Lock()
	if atomic.LoadInt32(&l.state) != stateRunning {
		l.mu.Unlock()
		return
	}
	pending := make([]*timer, 0, len(l.timers))
	for tm := range l.timers {
		pending = append(pending, tm)
	}
	l.mu.Unlock()

	for _, tm := range pending {
		tm.fail(api.ErrLoopClosed)
	}

	l.mu.Lock()
	atomic.StoreInt32(&l.state, stateDraining)
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}

// runTask isolates callback panics so one bad handler cannot take the
// loop goroutine down with it.
func runTask(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
