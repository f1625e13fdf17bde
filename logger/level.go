package logger

import "github.com/tealog/tealog/core"

// Level is re-exported with its constants so facade users need only
// this package.
type Level = core.Level

const (
	TraceLevel   = core.TraceLevel
	DebugLevel   = core.DebugLevel
	InfoLevel    = core.InfoLevel
	WarningLevel = core.WarningLevel
	ErrorLevel   = core.ErrorLevel
	OffLevel     = core.OffLevel
)

// ParseLevel converts a level name to a Level. It accepts any case
// and "warn" as an alias for WARNING; unknown names return an error
// alongside InfoLevel.
func ParseLevel(s string) (Level, error) {
	return core.ParseLevel(s)
}
