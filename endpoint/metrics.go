// File: endpoint/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package endpoint

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the endpoint's connection counters.
type Metrics struct {
	ConnectionsOpened prometheus.Counter
	ConnectionsClosed prometheus.Counter
	DialRetries       prometheus.Counter
}

// NewMetrics creates and registers the counters on reg. Pass a dedicated
// registry in tests to avoid cross-test registration clashes.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload_transport",
			Name:      "connections_opened_total",
			Help:      "Connections adopted by the endpoint.",
		}),
		ConnectionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload_transport",
			Name:      "connections_closed_total",
			Help:      "Connections released from the registry.",
		}),
		DialRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload_transport",
			Name:      "dial_retries_total",
			Help:      "Failed dial attempts, including retried ones.",
		}),
	}
	reg.MustRegister(m.ConnectionsOpened, m.ConnectionsClosed, m.DialRetries)
	return m
}
