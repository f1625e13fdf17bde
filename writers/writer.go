package writers

import (
	"github.com/tealog/tealog/core"
)

// Config is the narrow read view of the active configuration handed
// to a writer during Init.
type Config interface {
	// Level returns the global severity threshold
	Level() core.Level
	// RequiredValues returns the union of entry values required by
	// every active writer plus the compiled format pattern
	RequiredValues() core.EntryValues
	// Async reports whether entries reach writers through background
	// consumers
	Async() bool
}

// Writer is an output sink for finished log entries.
//
// Writers must be comparable: reconfiguration diffs the old and new
// writer sets with == to decide which writers receive Init, so the
// same writer value carried across configurations is initialized
// exactly once. Entries handed to Write are immutable and may be
// shared with other writers.
type Writer interface {
	// RequiredValues declares the entry values this writer consumes
	RequiredValues() core.EntryValues
	// Init prepares the writer. It is called once, before the first
	// entry, when a configuration containing the writer is activated.
	Init(cfg Config) error
	// Write outputs one entry
	Write(entry *core.LogEntry) error
	// Close releases the writer's resources
	Close() error
}
