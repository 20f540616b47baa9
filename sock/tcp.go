// File: sock/tcp.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sock

import (
	"net"

	"github.com/momentics/hioload-transport/api"
)

// TCP is the plain, unencrypted socket capability.
type TCP struct {
	stream
}

// NewTCP wraps an established conn. The capability takes ownership of
// the conn's lifetime from here on.
func NewTCP(conn net.Conn) *TCP {
	t := &TCP{}
	t.conn = conn
	return t
}

// IsSecure implements api.SocketConn.
func (t *TCP) IsSecure() bool { return false }

// Attach implements api.SocketConn. Server and client mode are identical
// for a plain stream; the flag exists for the capability contract.
func (t *TCP) Attach(l api.Loop, isServer bool) error {
	t.loop = l
	t.captureFD(t.conn)
	return nil
}

// Setup implements api.SocketConn. A plain stream has no handshake, so
// setup completes immediately, still posted through the loop.
func (t *TCP) Setup(done func(err error)) {
	t.loop.Post(func() { done(nil) })
}

// Stream implements api.SocketConn.
func (t *TCP) Stream() api.Stream { return &t.stream }

// Shutdown implements api.SocketConn.
func (t *TCP) Shutdown() error { return t.stream.shutdown() }
