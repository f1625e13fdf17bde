package benchmark

import (
	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/writers"
)

// noopWriter consumes rendered entries without doing any I/O, so
// benchmarks against it measure pure pipeline cost.
type noopWriter struct{}

func newNoopWriter() writers.Writer {
	return &noopWriter{}
}

func (w *noopWriter) RequiredValues() core.EntryValues {
	return core.EntryValues(core.ValueRendered)
}

func (w *noopWriter) Init(writers.Config) error {
	return nil
}

func (w *noopWriter) Write(entry *core.LogEntry) error {
	_ = len(entry.Rendered)
	return nil
}

func (w *noopWriter) Close() error {
	return nil
}
