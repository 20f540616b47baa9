// File: internal/logging/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Log sink implementations. WriterSink formats through a shared byte
// buffer pool so hot-path devel logging does not allocate per line.

package logging

import (
	"io"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/momentics/hioload-transport/api"
)

// WriterSink writes "<ts> [<level>] <msg>\n" lines to an io.Writer.
// Safe for concurrent use by multiple connections.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	min api.LogLevel
}

// NewWriterSink builds a sink over w that drops lines below min.
func NewWriterSink(w io.Writer, min api.LogLevel) *WriterSink {
	return &WriterSink{w: w, min: min}
}

// Write implements api.LogSink.
func (s *WriterSink) Write(level api.LogLevel, msg string) {
	if level < s.min {
		return
	}
	buf := bytebufferpool.Get()
	buf.B = time.Now().UTC().AppendFormat(buf.B, time.RFC3339Nano)
	buf.B = append(buf.B, " ["...)
	buf.B = append(buf.B, level.String()...)
	buf.B = append(buf.B, "] "...)
	buf.B = append(buf.B, msg...)
	buf.B = append(buf.B, '\n')

	s.mu.Lock()
	_, _ = s.w.Write(buf.B)
	s.mu.Unlock()
	bytebufferpool.Put(buf)
}

// Nop discards everything.
type Nop struct{}

// Write implements api.LogSink.
func (Nop) Write(api.LogLevel, string) {}
