package core

import (
	"fmt"
	"strings"
)

// Level represents the severity level of a log entry. Levels are
// ordered: a configured level of InfoLevel lets INFO and everything
// above it (WARNING, ERROR) through and suppresses TRACE and DEBUG.
type Level int8

const (
	// TraceLevel for very fine-grained tracing output
	TraceLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarningLevel for warning messages
	WarningLevel
	// ErrorLevel for error messages
	ErrorLevel
	// OffLevel disables output entirely; it is a threshold, not a
	// level a log call can carry
	OffLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case OffLevel:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// Enables reports whether a threshold set to l lets calls at level
// other through.
func (l Level) Enables(other Level) bool {
	return l <= other && other != OffLevel
}

// ParseLevel converts a string to a Level. Matching is
// case-insensitive and "warn" is accepted for WARNING.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarningLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "OFF":
		return OffLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown level %q", s)
	}
}
