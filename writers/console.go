package writers

import (
	"io"
	"os"
	"sync"

	"github.com/tealog/tealog/core"
)

// ConsoleWriter writes rendered entries to the console, splitting
// streams by severity: TRACE through INFO go to stdout, WARNING and
// ERROR to stderr.
type ConsoleWriter struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewConsoleWriter creates a console writer on stdout/stderr.
func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{out: os.Stdout, err: os.Stderr}
}

// NewConsoleWriterTo creates a console writer on custom streams.
// Tests and capture pipelines use it.
func NewConsoleWriterTo(out, errOut io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out, err: errOut}
}

// RequiredValues declares that console output needs the fully
// rendered line.
func (w *ConsoleWriter) RequiredValues() core.EntryValues {
	return core.EntryValues(core.ValueRendered)
}

// Init implements Writer; the console needs no setup.
func (w *ConsoleWriter) Init(Config) error {
	return nil
}

// Write outputs the rendered entry on the stream matching its level.
func (w *ConsoleWriter) Write(entry *core.LogEntry) error {
	target := w.out
	if entry.Level >= core.WarningLevel {
		target = w.err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(target, entry.Rendered)
	return err
}

// Close implements Writer; the console owns no resources.
func (w *ConsoleWriter) Close() error {
	return nil
}
