// File: transport/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection adapts an api.SocketConn plus an api.Loop into the fixed
// operation set a connection protocol layer needs: init, read-at-least,
// scatter-gather write, one-shot timers, cross-goroutine posting and
// shutdown.

package transport

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/momentics/hioload-transport/api"
)

// Connection is the transport component for one logical connection.
//
// Mutation is confined to callbacks running on the bound loop; there is
// no internal locking. At most one write may be in flight at a time:
// issuing a second one before the first handler has run is rejected with
// KindWriteInFlight.
type Connection struct {
	isServer bool
	alog     api.LogSink
	elog     api.LogSink

	sock api.SocketConn
	loop api.Loop // bound once in AttachLoop, read-only afterwards

	hdl api.ConnHandle

	// pending holds descriptors for the one in-flight scatter-gather
	// write. The segments alias caller memory; cleared unconditionally
	// when the write completes.
	pending       net.Buffers
	writeInFlight int32

	tcpInit api.TCPInitHandler
}

// NewConnection builds a transport connection over sock. alog receives
// access/diagnostic lines, elog receives errors; either may be shared
// with other connections.
func NewConnection(isServer bool, sock api.SocketConn, alog, elog api.LogSink) *Connection {
	alog.Write(api.LevelDevel, "transport connection constructed")
	return &Connection{
		isServer: isServer,
		alog:     alog,
		elog:     elog,
		sock:     sock,
	}
}

// IsSecure reports whether the socket capability encrypts the stream.
func (c *Connection) IsSecure() bool { return c.sock.IsSecure() }

// AttachLoop binds the connection to its event loop and initializes the
// socket capability in the connection's mode. Must be called exactly
// once, before any other operation.
func (c *Connection) AttachLoop(l api.Loop) error {
	c.loop = l
	return c.sock.Attach(l, c.isServer)
}

// SetTCPInitHandler registers a hook run once per Init, after the socket
// capability's setup completes and before the caller's handler.
func (c *Connection) SetTCPInitHandler(fn api.TCPInitHandler) {
	c.tcpInit = fn
}

// Handle returns the connection token.
func (c *Connection) Handle() api.ConnHandle { return c.hdl }

// SetHandle stores the connection token. No side effects beyond storage.
func (c *Connection) SetHandle(hdl api.ConnHandle) { c.hdl = hdl }

// Init asks the socket capability to perform its setup (for an encrypted
// stream, the handshake) and reports the outcome to h. The TCP-init hook,
// if registered, runs first, exactly once, whatever the outcome.
func (c *Connection) Init(h api.InitHandler) {
	c.alog.Write(api.LevelDevel, "transport connection init")
	c.sock.Setup(func(err error) {
		if c.tcpInit != nil {
			c.tcpInit(c.hdl)
		}
		h(api.PassThrough(err))
	})
}

// AsyncReadAtLeast reads at least min and at most len(buf) bytes into
// buf. h runs exactly once on the loop with the transferred count: with
// KindInvalidNumBytes and 0 when min exceeds the buffer capacity (no I/O
// issued), with KindPassThrough on a socket error, or with nil on
// success.
func (c *Connection) AsyncReadAtLeast(min int, buf []byte, h api.ReadHandler) {
	c.alog.Write(api.LevelDevel, fmt.Sprintf("async_read_at_least: %d", min))

	if min > len(buf) {
		c.elog.Write(api.LevelDevel, "async_read_at_least: invalid_num_bytes")
		c.loop.Post(func() {
			h(api.NewError(api.KindInvalidNumBytes, nil), 0)
		})
		return
	}

	c.sock.Stream().ReadAtLeast(buf, min, func(n int, err error) {
		if err != nil {
			c.elog.Write(api.LevelDevel,
				fmt.Sprintf("async_read_at_least pass_through, original error: %v", err))
		}
		h(api.PassThrough(err), n)
	})
}

// AsyncWrite queues one segment and issues the scatter-gather write.
// buf aliases caller memory and must stay valid and unmodified until h
// has run.
func (c *Connection) AsyncWrite(buf []byte, h api.WriteHandler) {
	c.asyncWrite(net.Buffers{buf}, h)
}

// AsyncWritev queues every segment of bufs in order and issues one
// scatter-gather write of the whole pending sequence. Same buffer
// lifetime contract as AsyncWrite.
func (c *Connection) AsyncWritev(bufs net.Buffers, h api.WriteHandler) {
	c.asyncWrite(bufs, h)
}

func (c *Connection) asyncWrite(bufs net.Buffers, h api.WriteHandler) {
	if !atomic.CompareAndSwapInt32(&c.writeInFlight, 0, 1) {
		c.elog.Write(api.LevelError, "async_write: write already in flight")
		c.loop.Post(func() {
			h(api.NewError(api.KindWriteInFlight, nil))
		})
		return
	}

	c.pending = append(c.pending, bufs...)

	c.sock.Stream().Writev(c.pending, func(err error) {
		// Descriptors are dropped whatever the outcome so the next
		// write starts from an empty sequence.
		c.pending = c.pending[:0]
		atomic.StoreInt32(&c.writeInFlight, 0)
		if err != nil {
			c.elog.Write(api.LevelDevel,
				fmt.Sprintf("async_write pass_through, original error: %v", err))
		}
		h(api.PassThrough(err))
	})
}

// Interrupt schedules h on the connection's loop from any goroutine.
// Scheduling itself cannot fail at this layer.
func (c *Connection) Interrupt(h func()) error {
	c.loop.Post(h)
	return nil
}

// Dispatch schedules h on the connection's loop from any goroutine.
// Identical to Interrupt at this layer; the split exists for caller
// intent only.
func (c *Connection) Dispatch(h func()) error {
	c.loop.Post(h)
	return nil
}

// Shutdown closes the socket capability. Operations in flight complete
// through their normal handlers with a non-nil error; no new operation
// may be started afterwards.
func (c *Connection) Shutdown() error {
	return c.sock.Shutdown()
}
