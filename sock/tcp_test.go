// File: sock/tcp_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sock_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-transport/loop"
	"github.com/momentics/hioload-transport/sock"
)

func startLoop(t *testing.T) *loop.Loop {
	t.Helper()
	l := loop.New()
	go l.Run()
	t.Cleanup(l.Stop)
	return l
}

func TestTCPSetupCompletesOffCallerStack(t *testing.T) {
	l := startLoop(t)
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	s := sock.NewTCP(client)
	require.False(t, s.IsSecure())
	require.NoError(t, s.Attach(l, false))

	done := make(chan error, 1)
	s.Setup(func(err error) { done <- err })
	require.NoError(t, <-done)
}

func TestTCPReadAtLeastWaitsForMinimum(t *testing.T) {
	l := startLoop(t)
	client, server := net.Pipe()
	defer server.Close()

	s := sock.NewTCP(client)
	require.NoError(t, s.Attach(l, false))

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	buf := make([]byte, 16)
	s.Stream().ReadAtLeast(buf, 8, func(n int, err error) { done <- result{n, err} })

	// Deliver the minimum in two chunks; the read must not complete early.
	_, err := server.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = server.Write([]byte("efgh"))
	require.NoError(t, err)

	res := <-done
	require.NoError(t, res.err)
	require.GreaterOrEqual(t, res.n, 8)
	require.Equal(t, "abcdefgh", string(buf[:8]))
	require.NoError(t, s.Shutdown())
}

func TestTCPWritevDeliversAllSegments(t *testing.T) {
	l := startLoop(t)
	client, server := net.Pipe()
	defer server.Close()

	s := sock.NewTCP(client)
	require.NoError(t, s.Attach(l, false))

	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 5)
		n, _ := server.Read(buf)
		rest := make([]byte, 5)
		for n < 5 {
			m, err := server.Read(rest)
			copy(buf[n:], rest[:m])
			n += m
			if err != nil {
				break
			}
		}
		got <- buf[:n]
	}()

	done := make(chan error, 1)
	s.Stream().Writev(net.Buffers{[]byte("ab"), []byte("cde")}, func(err error) { done <- err })
	require.NoError(t, <-done)
	require.Equal(t, "abcde", string(<-got))
	require.NoError(t, s.Shutdown())
}

func TestTCPShutdownFailsLaterOperations(t *testing.T) {
	l := startLoop(t)
	client, server := net.Pipe()
	defer server.Close()

	s := sock.NewTCP(client)
	require.NoError(t, s.Attach(l, false))
	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown(), "second shutdown is a no-op")

	readDone := make(chan error, 1)
	s.Stream().ReadAtLeast(make([]byte, 4), 1, func(_ int, err error) { readDone <- err })
	require.ErrorIs(t, <-readDone, net.ErrClosed)

	writeDone := make(chan error, 1)
	s.Stream().Writev(net.Buffers{[]byte("x")}, func(err error) { writeDone <- err })
	require.ErrorIs(t, <-writeDone, net.ErrClosed)
}

func TestTCPShutdownFailsInflightRead(t *testing.T) {
	l := startLoop(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() { _, _ = ln.Accept() }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	s := sock.NewTCP(conn)
	require.NoError(t, s.Attach(l, false))

	done := make(chan error, 1)
	s.Stream().ReadAtLeast(make([]byte, 4), 1, func(_ int, err error) { done <- err })

	require.NoError(t, s.Shutdown())
	require.Error(t, <-done)
}

func TestTLSRequiresConfig(t *testing.T) {
	l := startLoop(t)
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	s := sock.NewTLS(client, nil)
	require.True(t, s.IsSecure())
	require.ErrorIs(t, s.Attach(l, false), sock.ErrNoTLSConfig)
}
