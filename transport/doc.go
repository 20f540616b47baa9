// File: transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package transport implements the per-connection async transport
// component sitting between a protocol layer and a socket capability.
//
// A Connection moves bytes and signals completion or error; it never
// interprets payload. All of its operations are fire-and-forget: they
// return immediately and deliver their outcome through a handler invoked
// later on the connection's event loop, never on the caller's stack.
// Connection state is only touched from that loop; Interrupt and Dispatch
// are the supported entry points for other goroutines.
package transport
