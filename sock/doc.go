// File: sock/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package sock provides the concrete socket capabilities consumed by
// package transport: a plain TCP stream and a TLS-encrypted stream. Both
// run blocking I/O on short-lived goroutines and post completions back
// onto the loop they were attached to.
package sock
