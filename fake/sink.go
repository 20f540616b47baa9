// File: fake/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/hioload-transport/api"
)

// Sink is a no-op api.LogSink for tests that do not inspect logging.
type Sink struct{}

// Write implements api.LogSink.
func (Sink) Write(api.LogLevel, string) {}

// RecordingSink captures every line written to it.
type RecordingSink struct {
	mu    sync.Mutex
	lines []string
}

// Write implements api.LogSink.
func (s *RecordingSink) Write(level api.LogLevel, msg string) {
	s.mu.Lock()
	s.lines = append(s.lines, level.String()+": "+msg)
	s.mu.Unlock()
}

// Lines returns a copy of the captured lines, oldest first.
func (s *RecordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}
