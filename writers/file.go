package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tealog/tealog/core"
)

const fileBufferSize = 64 * 1024

// FileWriter appends rendered entries to a single file, optionally
// through a buffer. The file is opened by Init, not by the
// constructor, so an unused writer in a configuration that never
// activates costs nothing.
type FileWriter struct {
	filename string
	buffered bool

	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// NewFileWriter creates a file writer for the given path.
func NewFileWriter(filename string, buffered bool) *FileWriter {
	return &FileWriter{filename: filename, buffered: buffered}
}

// RequiredValues declares that file output needs the fully rendered
// line.
func (w *FileWriter) RequiredValues() core.EntryValues {
	return core.EntryValues(core.ValueRendered)
}

// Init opens the file for appending, creating missing directories.
// A second Init on an already open writer is a no-op.
func (w *FileWriter) Init(Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return nil
	}
	if w.filename == "" {
		return fmt.Errorf("filename is required")
	}
	if err := os.MkdirAll(filepath.Dir(w.filename), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(w.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	w.file = file
	if w.buffered {
		w.buf = bufio.NewWriterSize(file, fileBufferSize)
	}
	return nil
}

// Write appends the rendered entry.
func (w *FileWriter) Write(entry *core.LogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("file writer %q is not initialized", w.filename)
	}
	_, err := io.WriteString(w.target(), entry.Rendered)
	return err
}

// Flush forces buffered output to disk.
func (w *FileWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf != nil {
		return w.buf.Flush()
	}
	return nil
}

// Close flushes, syncs and closes the file. Closing an unopened or
// already closed writer is a no-op.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := closeFile(w.file, w.buf)
	w.file = nil
	w.buf = nil
	return err
}

func (w *FileWriter) target() io.Writer {
	if w.buf != nil {
		return w.buf
	}
	return w.file
}

// closeFile flushes the buffer if present, then syncs and closes.
func closeFile(file *os.File, buf *bufio.Writer) error {
	if buf != nil {
		if err := buf.Flush(); err != nil {
			file.Close()
			return err
		}
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
