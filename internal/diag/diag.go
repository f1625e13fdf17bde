// Package diag is the facade's internal diagnostic sink. The pipeline
// reports its own failures here instead of throwing them back into
// application log calls, and a logging library cannot route its own
// faults through itself.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// SetOutput redirects diagnostic output and returns the previous
// writer. Passing nil restores stderr.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	if w == nil {
		w = os.Stderr
	}
	out = w
	return prev
}

// Warn reports a non-fatal internal failure.
func Warn(cause error, msg string) {
	emit("WARNING", msg, cause)
}

// Error reports an internal failure.
func Error(cause error, msg string) {
	emit("ERROR", msg, cause)
}

func emit(severity, msg string, cause error) {
	mu.Lock()
	defer mu.Unlock()
	if cause != nil {
		fmt.Fprintf(out, "tealog: %s: %s (%v)\n", severity, msg, cause)
		return
	}
	fmt.Fprintf(out, "tealog: %s: %s\n", severity, msg)
}
