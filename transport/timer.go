// File: transport/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-shot transport timers. Each SetTimer call returns an independently
// owned handle; the connection keeps no reference to it.

package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/momentics/hioload-transport/api"
)

// Timer is a caller-owned handle to one pending transport timer wait.
type Timer struct {
	inner api.Timer
}

// Cancel stops the wait. The handler observes KindOperationAborted if
// cancellation won the race with the timer firing.
func (t *Timer) Cancel() bool { return t.inner.Cancel() }

// SetTimer arms a one-shot timer on the connection's loop. h runs exactly
// once: with nil at or after d, with KindOperationAborted when the wait
// is cancelled through the returned handle, or with KindPassThrough when
// the underlying wait fails (for example the loop shutting down).
func (c *Connection) SetTimer(d time.Duration, h api.TimerHandler) *Timer {
	inner := c.loop.NewTimer(d, func(err error) {
		switch {
		case err == nil:
			h(nil)
		case errors.Is(err, api.ErrWaitCanceled):
			h(api.NewError(api.KindOperationAborted, nil))
		default:
			c.elog.Write(api.LevelDevel,
				fmt.Sprintf("timer wait pass_through, original error: %v", err))
			h(api.PassThrough(err))
		}
	})
	return &Timer{inner: inner}
}
