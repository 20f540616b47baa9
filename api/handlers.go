// File: api/handlers.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion handler signatures and the connection handle token.

package api

import "github.com/google/uuid"

// InitHandler observes the outcome of Connection.Init.
type InitHandler func(err *Error)

// ReadHandler observes the outcome of a read. n is the number of bytes
// actually transferred, valid even when err is non-nil.
type ReadHandler func(err *Error, n int)

// WriteHandler observes the outcome of a scatter-gather write.
type WriteHandler func(err *Error)

// TimerHandler observes a timer firing, being cancelled, or failing.
type TimerHandler func(err *Error)

// TCPInitHandler runs once per Connection.Init, before the caller's
// InitHandler, carrying the connection's handle. Fire-and-forget.
type TCPInitHandler func(hdl ConnHandle)

// ConnHandle identifies a connection to external code without granting
// ownership: copies are cheap, and holding one never keeps the connection
// alive. Resolution back to a live connection goes through the endpoint
// registry.
type ConnHandle struct {
	id uuid.UUID
}

// NewConnHandle mints a fresh, globally unique handle.
func NewConnHandle() ConnHandle {
	return ConnHandle{id: uuid.New()}
}

// Zero reports whether the handle has never been assigned.
func (h ConnHandle) Zero() bool { return h.id == uuid.Nil }

// Key returns the registry key form of the handle.
func (h ConnHandle) Key() string { return h.id.String() }

func (h ConnHandle) String() string { return h.id.String() }
