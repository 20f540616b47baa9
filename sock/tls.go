// File: sock/tls.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sock

import (
	"crypto/tls"
	"errors"
	"net"

	"github.com/momentics/hioload-transport/api"
)

// ErrNoTLSConfig is returned from Attach when no config was supplied.
var ErrNoTLSConfig = errors.New("sock: nil tls config")

// TLS is the encrypted socket capability. The handshake runs during
// Setup; reads and writes before Setup completes would trigger an
// implicit handshake on the I/O goroutine, so callers go through the
// transport's Init first.
type TLS struct {
	stream
	raw net.Conn
	cfg *tls.Config
	tc  *tls.Conn
}

// NewTLS wraps an established conn with a TLS layer configured by cfg.
func NewTLS(conn net.Conn, cfg *tls.Config) *TLS {
	return &TLS{raw: conn, cfg: cfg}
}

// IsSecure implements api.SocketConn.
func (t *TLS) IsSecure() bool { return true }

// Attach implements api.SocketConn. isServer selects the handshake role.
func (t *TLS) Attach(l api.Loop, isServer bool) error {
	if t.cfg == nil {
		return ErrNoTLSConfig
	}
	t.loop = l
	if isServer {
		t.tc = tls.Server(t.raw, t.cfg)
	} else {
		t.tc = tls.Client(t.raw, t.cfg)
	}
	t.conn = t.tc
	t.captureFD(t.raw)
	return nil
}

// Setup implements api.SocketConn: drives the TLS handshake off the
// caller's stack and posts the outcome.
func (t *TLS) Setup(done func(err error)) {
	go func() {
		err := t.tc.Handshake()
		t.loop.Post(func() { done(err) })
	}()
}

// Stream implements api.SocketConn.
func (t *TLS) Stream() api.Stream { return &t.stream }

// Shutdown implements api.SocketConn.
func (t *TLS) Shutdown() error { return t.stream.shutdown() }
