// File: sock/stream.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared async stream machinery for the TCP and TLS capabilities.
// Blocking reads and writes run on per-request goroutines; completions
// are always posted onto the attached loop, never run inline.

package sock

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/momentics/hioload-transport/api"
)

// stream implements api.Stream over any blocking net.Conn.
type stream struct {
	conn   net.Conn
	loop   api.Loop
	fd     uintptr
	closed int32
}

// ReadAtLeast implements api.Stream.
func (s *stream) ReadAtLeast(buf []byte, min int, done func(n int, err error)) {
	if atomic.LoadInt32(&s.closed) == 1 {
		s.loop.Post(func() { done(0, net.ErrClosed) })
		return
	}
	go func() {
		n, err := io.ReadAtLeast(s.conn, buf, min)
		s.loop.Post(func() { done(n, err) })
	}()
}

// Writev implements api.Stream. One scatter-gather write of all segments;
// on a *net.TCPConn this reaches the kernel as writev.
func (s *stream) Writev(bufs net.Buffers, done func(err error)) {
	if atomic.LoadInt32(&s.closed) == 1 {
		s.loop.Post(func() { done(net.ErrClosed) })
		return
	}
	go func() {
		_, err := bufs.WriteTo(s.conn)
		s.loop.Post(func() { done(err) })
	}()
}

// RawFD implements api.Stream.
func (s *stream) RawFD() uintptr { return s.fd }

// shutdown closes the descriptor; blocked I/O goroutines fail out and
// complete through their posted callbacks.
func (s *stream) shutdown() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	return s.conn.Close()
}

// captureFD records the OS descriptor and applies transport-grade socket
// options where the platform supports them.
func (s *stream) captureFD(conn net.Conn) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	raw, err := tc.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		s.fd = fd
		_ = setNoDelay(fd)
	})
}
