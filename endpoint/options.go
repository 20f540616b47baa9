// File: endpoint/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package endpoint

import (
	"crypto/tls"

	"github.com/momentics/hioload-transport/api"
)

// Option customizes endpoint construction.
type Option func(e *Endpoint)

// WithLoops sets the event loop count. Defaults to runtime.NumCPU().
func WithLoops(n int) Option {
	return func(e *Endpoint) { e.loops = n }
}

// WithTLS makes the endpoint build encrypted socket capabilities.
func WithTLS(cfg *tls.Config) Option {
	return func(e *Endpoint) { e.tlsCfg = cfg }
}

// WithAccessLog sets the access/diagnostic sink shared by connections.
func WithAccessLog(sink api.LogSink) Option {
	return func(e *Endpoint) { e.alog = sink }
}

// WithErrorLog sets the error sink shared by connections.
func WithErrorLog(sink api.LogSink) Option {
	return func(e *Endpoint) { e.elog = sink }
}

// WithMetrics attaches endpoint counters (see NewMetrics).
func WithMetrics(m *Metrics) Option {
	return func(e *Endpoint) { e.metrics = m }
}

// WithDialAttempts caps Dial retries. n is the retry budget beyond the
// first attempt.
func WithDialAttempts(n uint64) Option {
	return func(e *Endpoint) { e.maxDials = n }
}
