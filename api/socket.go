// File: api/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket capability contract. The transport connection delegates all
// bytes-on-wire work here and stays oblivious to whether the stream is
// plain or encrypted.

package api

import "net"

// SocketConn is the underlying connected-stream capability beneath a
// transport connection.
type SocketConn interface {
	// IsSecure reports whether the stream is encrypted.
	IsSecure() bool

	// Attach binds the capability to the loop the owning connection runs
	// on and selects server or client mode. Called exactly once, before
	// Setup or any Stream operation.
	Attach(loop Loop, isServer bool) error

	// Setup performs protocol-specific setup (a TLS handshake, or nothing
	// for plain TCP) and reports the outcome through done, posted on the
	// attached loop. Never invokes done on the caller's stack.
	Setup(done func(err error))

	// Stream returns the I/O-capable handle for reads and writes.
	// Valid only after Attach.
	Stream() Stream

	// Shutdown closes the underlying descriptor. Operations in flight
	// complete through their normal callbacks with a non-nil error;
	// operations issued afterwards fail the same way.
	Shutdown() error
}

// Stream performs asynchronous byte transfer for a socket capability.
// Completions are posted on the loop the capability was attached to,
// never run on the caller's stack, and fire exactly once per request.
type Stream interface {
	// ReadAtLeast reads at least min and at most len(buf) bytes into buf,
	// then reports the observed byte count and error.
	ReadAtLeast(buf []byte, min int, done func(n int, err error))

	// Writev performs one scatter-gather write of all segments. The
	// segments alias caller memory and must stay valid until done fires.
	Writev(bufs net.Buffers, done func(err error))

	// RawFD returns the OS-level descriptor, or 0 when not applicable.
	RawFD() uintptr
}
