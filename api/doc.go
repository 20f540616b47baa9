// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the capability contracts of hioload-transport.
//
// The transport connection in package transport is written against these
// interfaces only: a socket capability that moves bytes on the wire, an
// event loop that serializes completion callbacks and owns timers, and a
// log sink. Concrete implementations live in sock/, loop/ and
// internal/logging; test doubles live in fake/.
package api
