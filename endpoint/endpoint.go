// File: endpoint/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint is the factory that builds transport connections, spreads
// them across an event loop group and tracks them by handle. Handles are
// weak: the registry holds the only owning reference, and Release drops
// it.

package endpoint

import (
	"crypto/tls"
	"net"
	"sync/atomic"

	"github.com/cenkalti/backoff/v4"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/momentics/hioload-transport/api"
	"github.com/momentics/hioload-transport/internal/logging"
	"github.com/momentics/hioload-transport/loop"
	"github.com/momentics/hioload-transport/sock"
	"github.com/momentics/hioload-transport/transport"
)

// AcceptHandler observes each server connection after it is registered
// and bound to a loop, before Init has run.
type AcceptHandler func(c *transport.Connection)

// Endpoint builds and tracks transport connections.
type Endpoint struct {
	group   *loop.Group
	alog    api.LogSink
	elog    api.LogSink
	tlsCfg  *tls.Config
	metrics *Metrics

	conns cmap.ConcurrentMap[string, *transport.Connection]

	ln       net.Listener
	loops    int
	maxDials uint64
	closed   int32
}

// New creates an endpoint with its loop group running.
func New(opts ...Option) (*Endpoint, error) {
	e := &Endpoint{
		alog:     logging.Nop{},
		elog:     logging.Nop{},
		conns:    cmap.New[*transport.Connection](),
		maxDials: 5,
	}
	for _, opt := range opts {
		opt(e)
	}
	g, err := loop.NewGroup(e.loops)
	if err != nil {
		return nil, err
	}
	e.group = g
	return e, nil
}

// adopt wraps an established conn in a socket capability, builds the
// transport connection, binds it to the next loop and registers it.
func (e *Endpoint) adopt(conn net.Conn, isServer bool) (*transport.Connection, error) {
	var sc api.SocketConn
	if e.tlsCfg != nil {
		sc = sock.NewTLS(conn, e.tlsCfg)
	} else {
		sc = sock.NewTCP(conn)
	}

	c := transport.NewConnection(isServer, sc, e.alog, e.elog)
	c.SetHandle(api.NewConnHandle())
	if err := c.AttachLoop(e.group.Next()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	e.conns.Set(c.Handle().Key(), c)
	if e.metrics != nil {
		e.metrics.ConnectionsOpened.Inc()
	}
	return c, nil
}

// Dial connects to addr with exponential backoff and returns the
// registered client-mode connection. Retries stop after the configured
// attempt budget.
func (e *Endpoint) Dial(addr string) (*transport.Connection, error) {
	var conn net.Conn
	op := func() error {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			if e.metrics != nil {
				e.metrics.DialRetries.Inc()
			}
			e.elog.Write(api.LevelWarn, "dial "+addr+": "+err.Error())
			return err
		}
		conn = c
		return nil
	}
	err := backoff.Retry(op,
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), e.maxDials))
	if err != nil {
		return nil, err
	}
	return e.adopt(conn, false)
}

// Listen accepts connections on addr, adopting each in server mode and
// handing it to accept. Returns once the listener is bound; the accept
// loop runs until Close.
func (e *Endpoint) Listen(addr string, accept AcceptHandler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	e.ln = ln
	go e.acceptLoop(ln, accept)
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (e *Endpoint) Addr() net.Addr {
	if e.ln == nil {
		return nil
	}
	return e.ln.Addr()
}

func (e *Endpoint) acceptLoop(ln net.Listener, accept AcceptHandler) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if atomic.LoadInt32(&e.closed) == 0 {
				e.elog.Write(api.LevelError, "accept: "+err.Error())
			}
			return
		}
		c, err := e.adopt(conn, true)
		if err != nil {
			e.elog.Write(api.LevelError, "adopt: "+err.Error())
			continue
		}
		accept(c)
	}
}

// Lookup resolves a handle to its live connection, if still registered.
func (e *Endpoint) Lookup(hdl api.ConnHandle) (*transport.Connection, bool) {
	return e.conns.Get(hdl.Key())
}

// Count returns the number of registered connections.
func (e *Endpoint) Count() int { return e.conns.Count() }

// Release shuts the connection down and drops it from the registry.
// Handles held elsewhere go stale, which is their contract.
func (e *Endpoint) Release(hdl api.ConnHandle) error {
	c, ok := e.conns.Get(hdl.Key())
	if !ok {
		return nil
	}
	e.conns.Remove(hdl.Key())
	if e.metrics != nil {
		e.metrics.ConnectionsClosed.Inc()
	}
	return c.Shutdown()
}

// Close stops accepting, releases every connection and stops the loops.
func (e *Endpoint) Close() error {
	if !atomic.CompareAndSwapInt32(&e.closed, 0, 1) {
		return nil
	}
	var first error
	if e.ln != nil {
		first = e.ln.Close()
	}
	for item := range e.conns.IterBuffered() {
		if err := e.Release(item.Val.Handle()); err != nil && first == nil {
			first = err
		}
	}
	e.group.Close()
	return first
}
