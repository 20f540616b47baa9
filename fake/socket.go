// File: fake/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"net"
	"sync"

	"github.com/momentics/hioload-transport/api"
)

// Socket is a scripted api.SocketConn for testing the transport
// connection without real I/O. Reads serve from RecvData; writes record
// every segment. All completions go through the attached loop.
type Socket struct {
	mu sync.Mutex

	Secure     bool
	SetupError error
	ReadError  error
	WriteError error

	loop     api.Loop
	isServer bool
	attached bool
	shutdown bool

	// RecvData is consumed by ReadAtLeast calls.
	RecvData []byte

	// WritevCalls records the segments of each Writev, one slice of
	// segment copies per call.
	WritevCalls [][][]byte

	SetupCalls    int
	ReadCalls     int
	ShutdownCalls int
}

// NewSocket creates a fake socket with empty scripting.
func NewSocket() *Socket { return &Socket{} }

// IsSecure implements api.SocketConn.
func (s *Socket) IsSecure() bool { return s.Secure }

// Attach implements api.SocketConn.
func (s *Socket) Attach(l api.Loop, isServer bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = l
	s.isServer = isServer
	s.attached = true
	return nil
}

// Attached reports whether Attach was called, and the mode it selected.
func (s *Socket) Attached() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached, s.isServer
}

// Setup implements api.SocketConn.
func (s *Socket) Setup(done func(err error)) {
	s.mu.Lock()
	s.SetupCalls++
	err := s.SetupError
	l := s.loop
	s.mu.Unlock()
	l.Post(func() { done(err) })
}

// Stream implements api.SocketConn.
func (s *Socket) Stream() api.Stream { return (*fakeStream)(s) }

// Shutdown implements api.SocketConn. Later reads and writes fail with
// net.ErrClosed.
func (s *Socket) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShutdownCalls++
	s.shutdown = true
	return nil
}

type fakeStream Socket

// ReadAtLeast implements api.Stream.
func (f *fakeStream) ReadAtLeast(buf []byte, min int, done func(n int, err error)) {
	s := (*Socket)(f)
	s.mu.Lock()
	s.ReadCalls++
	l := s.loop
	if s.shutdown {
		s.mu.Unlock()
		l.Post(func() { done(0, net.ErrClosed) })
		return
	}
	if s.ReadError != nil {
		err := s.ReadError
		s.mu.Unlock()
		l.Post(func() { done(0, err) })
		return
	}
	n := copy(buf, s.RecvData)
	s.RecvData = s.RecvData[n:]
	s.mu.Unlock()
	l.Post(func() { done(n, nil) })
}

// Writev implements api.Stream.
func (f *fakeStream) Writev(bufs net.Buffers, done func(err error)) {
	s := (*Socket)(f)
	s.mu.Lock()
	l := s.loop
	if s.shutdown {
		s.mu.Unlock()
		l.Post(func() { done(net.ErrClosed) })
		return
	}
	call := make([][]byte, 0, len(bufs))
	for _, seg := range bufs {
		cp := make([]byte, len(seg))
		copy(cp, seg)
		call = append(call, cp)
	}
	s.WritevCalls = append(s.WritevCalls, call)
	err := s.WriteError
	s.mu.Unlock()
	l.Post(func() { done(err) })
}

// RawFD implements api.Stream.
func (f *fakeStream) RawFD() uintptr { return 0 }
