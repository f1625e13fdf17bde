// Package writers provides the output sinks of the logging facade and
// the background facility that feeds them asynchronously.
//
// A Writer declares the entry values it consumes through
// RequiredValues, receives exactly one Init when a configuration
// containing it is first activated, and gets finished, immutable
// entries through Write. Reconfiguration compares writers with plain
// equality, so the same writer value can be carried across
// configurations without being re-initialized.
//
// The Background facility decouples callers from sink latency: one
// bounded FIFO queue and one consumer goroutine per writer. When a
// queue is full, the per-level overflow policy decides between
// dropping the newest entry, dropping the oldest, or blocking briefly
// and then writing inline. The defaults drop TRACE through WARNING
// and block for ERROR, favoring caller latency for routine output and
// delivery for errors. Per-queue statistics count dropped, blocked
// and processed entries.
package writers
