// File: loop/group.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Group runs N loops on a fixed ants worker pool, one worker per loop.
// Connections are spread across the loops round-robin; each connection
// still sees a single serialized execution thread.

package loop

import (
	"runtime"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// Group is a pool of event loops sharing one worker pool.
type Group struct {
	loops []*Loop
	pool  *ants.Pool
	next  uint32
}

// NewGroup starts n loops. n <= 0 defaults to runtime.NumCPU().
func NewGroup(n int) (*Group, error) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	pool, err := ants.NewPool(n)
	if err != nil {
		return nil, err
	}
	g := &Group{pool: pool}
	for i := 0; i < n; i++ {
		l := New()
		if err := pool.Submit(l.Run); err != nil {
			g.Close()
			return nil, err
		}
		g.loops = append(g.loops, l)
	}
	return g, nil
}

// Next hands out loops round-robin for new connections.
func (g *Group) Next() *Loop {
	idx := atomic.AddUint32(&g.next, 1)
	return g.loops[int(idx-1)%len(g.loops)]
}

// Size returns the number of loops in the group.
func (g *Group) Size() int { return len(g.loops) }

// Close stops every loop and releases the worker pool.
func (g *Group) Close() {
	for _, l := range g.loops {
		l.Stop()
	}
	g.pool.Release()
}
