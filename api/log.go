// File: api/log.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Injected logging contract. The transport takes two independent sinks,
// one for access/diagnostic traffic and one for errors, and never decides
// logging policy itself.

package api

// LogLevel classifies a log line for the sink.
type LogLevel int

const (
	LevelDevel LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDevel:
		return "devel"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// LogSink consumes log lines from the transport.
type LogSink interface {
	Write(level LogLevel, msg string)
}
