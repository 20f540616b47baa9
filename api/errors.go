// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Closed error taxonomy surfaced by the transport connection. Every async
// operation completes by invoking its handler exactly once with either nil
// or one of these kinds; errors never cross the async boundary any other way.

package api

import "fmt"

// ErrorKind enumerates the error conditions a transport handler can observe.
type ErrorKind int

const (
	// KindInvalidNumBytes reports a read whose minimum byte count exceeds
	// the capacity of the buffer supplied for it. Detected before any I/O.
	KindInvalidNumBytes ErrorKind = iota + 1

	// KindPassThrough wraps an error reported by the socket capability or
	// the event loop. The original error is retained as the cause and
	// logged, but carries no structural meaning to callers.
	KindPassThrough

	// KindOperationAborted reports a timer wait that was cancelled before
	// it fired.
	KindOperationAborted

	// KindWriteInFlight reports a write issued while a previous write on
	// the same connection had not yet completed. This is a programmer
	// error on the caller's side; the new write is rejected untouched.
	KindWriteInFlight
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidNumBytes:
		return "invalid_num_bytes"
	case KindPassThrough:
		return "pass_through"
	case KindOperationAborted:
		return "operation_aborted"
	case KindWriteInFlight:
		return "write_in_flight"
	default:
		return "unknown"
	}
}

// Error is the structured error delivered to transport handlers.
// A nil *Error means success.
type Error struct {
	Kind  ErrorKind
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

// Unwrap exposes the low-level error behind a pass-through, if any.
func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a transport error of the given kind with an optional cause.
func NewError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// PassThrough wraps a low-level socket or loop error. Returns nil when err
// is nil so completion paths can translate unconditionally.
func PassThrough(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindPassThrough, Cause: err}
}

// IsKind reports whether err is a transport *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	te, ok := err.(*Error)
	return ok && te.Kind == kind
}
