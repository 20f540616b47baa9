// File: transport/connection_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport_test

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-transport/api"
	"github.com/momentics/hioload-transport/fake"
	"github.com/momentics/hioload-transport/transport"
)

func newTestConn(t *testing.T, isServer bool) (*transport.Connection, *fake.Socket, *fake.Loop) {
	t.Helper()
	l := fake.NewLoop()
	s := fake.NewSocket()
	c := transport.NewConnection(isServer, s, fake.Sink{}, fake.Sink{})
	require.NoError(t, c.AttachLoop(l))
	return c, s, l
}

func TestAttachLoopInitializesSocket(t *testing.T) {
	_, s, _ := newTestConn(t, true)

	attached, isServer := s.Attached()
	require.True(t, attached)
	require.True(t, isServer)
}

func TestInitRunsTCPInitHookBeforeHandler(t *testing.T) {
	c, s, l := newTestConn(t, false)

	hdl := api.NewConnHandle()
	c.SetHandle(hdl)

	var order []string
	c.SetTCPInitHandler(func(got api.ConnHandle) {
		require.Equal(t, hdl, got)
		order = append(order, "tcp_init")
	})
	c.Init(func(err *api.Error) {
		require.Nil(t, err)
		order = append(order, "init_handler")
	})

	require.Empty(t, order, "handlers must not run on the caller's stack")
	l.Drain()
	require.Equal(t, []string{"tcp_init", "init_handler"}, order)
	require.Equal(t, 1, s.SetupCalls)
}

func TestInitHookRunsOnceEvenOnSetupError(t *testing.T) {
	c, s, l := newTestConn(t, false)
	s.SetupError = errors.New("handshake refused")

	hooks := 0
	c.SetTCPInitHandler(func(api.ConnHandle) { hooks++ })

	var got *api.Error
	c.Init(func(err *api.Error) { got = err })
	l.Drain()

	require.Equal(t, 1, hooks)
	require.NotNil(t, got)
	require.Equal(t, api.KindPassThrough, got.Kind)
}

func TestAsyncReadAtLeastInvalidNumBytes(t *testing.T) {
	c, s, l := newTestConn(t, false)

	buf := make([]byte, 5)
	calls := 0
	var got *api.Error
	var n int
	c.AsyncReadAtLeast(10, buf, func(err *api.Error, nn int) {
		calls++
		got, n = err, nn
	})

	require.Zero(t, calls, "handler must be scheduled, not invoked inline")
	l.Drain()

	require.Equal(t, 1, calls)
	require.NotNil(t, got)
	require.Equal(t, api.KindInvalidNumBytes, got.Kind)
	require.Zero(t, n)
	require.Zero(t, s.ReadCalls, "no I/O may be issued for the bad request")
}

func TestAsyncReadAtLeastSuccessPassesCountThrough(t *testing.T) {
	c, s, l := newTestConn(t, false)
	s.RecvData = []byte("hello world")

	buf := make([]byte, 5)
	var got *api.Error
	n := -1
	c.AsyncReadAtLeast(2, buf, func(err *api.Error, nn int) { got, n = err, nn })
	l.Drain()

	require.Nil(t, got)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestAsyncReadAtLeastTranslatesSocketError(t *testing.T) {
	c, s, l := newTestConn(t, false)
	s.ReadError = errors.New("connection reset")

	var got *api.Error
	c.AsyncReadAtLeast(1, make([]byte, 8), func(err *api.Error, _ int) { got = err })
	l.Drain()

	require.NotNil(t, got)
	require.Equal(t, api.KindPassThrough, got.Kind)
	require.ErrorContains(t, got.Cause, "connection reset")
}

func TestAsyncWriteSingleBuffer(t *testing.T) {
	c, s, l := newTestConn(t, false)

	var got *api.Error
	done := false
	c.AsyncWrite([]byte("ab"), func(err *api.Error) { got, done = err, true })
	require.False(t, done)
	l.Drain()

	require.True(t, done)
	require.Nil(t, got)
	require.Len(t, s.WritevCalls, 1)
	require.Equal(t, [][]byte{[]byte("ab")}, s.WritevCalls[0])
}

func TestAsyncWritevPreservesSegmentOrder(t *testing.T) {
	c, s, l := newTestConn(t, false)

	c.AsyncWritev(net.Buffers{[]byte("ab"), []byte("cde")}, func(err *api.Error) {
		require.Nil(t, err)
	})
	l.Drain()

	require.Len(t, s.WritevCalls, 1)
	require.Equal(t, [][]byte{[]byte("ab"), []byte("cde")}, s.WritevCalls[0])
}

func TestPendingSequenceClearsAfterSuccess(t *testing.T) {
	c, s, l := newTestConn(t, false)

	c.AsyncWritev(net.Buffers{[]byte("ab"), []byte("cde")}, func(err *api.Error) {
		require.Nil(t, err)
	})
	l.Drain()

	// A subsequent write must start from an empty pending sequence.
	c.AsyncWrite([]byte("xyz"), func(err *api.Error) { require.Nil(t, err) })
	l.Drain()

	require.Len(t, s.WritevCalls, 2)
	require.Equal(t, [][]byte{[]byte("xyz")}, s.WritevCalls[1])
}

func TestPendingSequenceClearsAfterFailure(t *testing.T) {
	c, s, l := newTestConn(t, false)
	s.WriteError = errors.New("broken pipe")

	var got *api.Error
	c.AsyncWrite([]byte("ab"), func(err *api.Error) { got = err })
	l.Drain()
	require.NotNil(t, got)
	require.Equal(t, api.KindPassThrough, got.Kind)

	s.WriteError = nil
	c.AsyncWrite([]byte("cd"), func(err *api.Error) { require.Nil(t, err) })
	l.Drain()

	require.Len(t, s.WritevCalls, 2)
	require.Equal(t, [][]byte{[]byte("cd")}, s.WritevCalls[1])
}

func TestSecondWriteWhileInFlightFailsFast(t *testing.T) {
	c, s, l := newTestConn(t, false)

	var first, second *api.Error
	firstDone := false
	c.AsyncWrite([]byte("ab"), func(err *api.Error) { first, firstDone = err, true })
	require.False(t, firstDone)

	c.AsyncWrite([]byte("cd"), func(err *api.Error) { second = err })
	l.Drain()

	require.Nil(t, first)
	require.NotNil(t, second)
	require.Equal(t, api.KindWriteInFlight, second.Kind)
	// The rejected write must not have touched the wire.
	require.Len(t, s.WritevCalls, 1)
}

func TestInterruptAndDispatchFromOtherGoroutine(t *testing.T) {
	c, _, l := newTestConn(t, false)

	ran := make(chan string, 2)
	errs := make(chan error, 2)
	go func() {
		errs <- c.Interrupt(func() { ran <- "interrupt" })
		errs <- c.Dispatch(func() { ran <- "dispatch" })
	}()

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	l.Drain()
	require.Equal(t, "interrupt", <-ran)
	require.Equal(t, "dispatch", <-ran)
}

func TestOperationsAfterShutdownFail(t *testing.T) {
	c, s, l := newTestConn(t, false)

	require.NoError(t, c.Shutdown())
	require.Equal(t, 1, s.ShutdownCalls)

	var readErr, writeErr *api.Error
	c.AsyncReadAtLeast(1, make([]byte, 4), func(err *api.Error, _ int) { readErr = err })
	c.AsyncWrite([]byte("late"), func(err *api.Error) { writeErr = err })
	l.Drain()

	require.NotNil(t, readErr)
	require.Equal(t, api.KindPassThrough, readErr.Kind)
	require.NotNil(t, writeErr)
	require.Equal(t, api.KindPassThrough, writeErr.Kind)
}

func TestHandleAccessors(t *testing.T) {
	c, _, _ := newTestConn(t, false)

	require.True(t, c.Handle().Zero())
	hdl := api.NewConnHandle()
	c.SetHandle(hdl)
	require.Equal(t, hdl, c.Handle())
}

func TestInvalidReadIsReportedToErrorSink(t *testing.T) {
	l := fake.NewLoop()
	s := fake.NewSocket()
	elog := &fake.RecordingSink{}
	c := transport.NewConnection(false, s, fake.Sink{}, elog)
	require.NoError(t, c.AttachLoop(l))

	c.AsyncReadAtLeast(10, make([]byte, 5), func(*api.Error, int) {})
	l.Drain()

	lines := elog.Lines()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "invalid_num_bytes")
}

func TestIsSecureForwardsToSocket(t *testing.T) {
	l := fake.NewLoop()
	s := fake.NewSocket()
	s.Secure = true
	c := transport.NewConnection(false, s, fake.Sink{}, fake.Sink{})
	require.NoError(t, c.AttachLoop(l))
	require.True(t, c.IsSecure())
}
