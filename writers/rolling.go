package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tealog/tealog/core"
)

// RollingConfig configures a RollingFileWriter.
type RollingConfig struct {
	// Filename is the path of the active log file
	Filename string
	// MaxSize is the size in bytes that triggers rotation
	// (default 10 MiB, 0 keeps the default)
	MaxSize int64
	// RotateInterval rotates after this much time regardless of size
	// (0 = no time-based rotation)
	RotateInterval time.Duration
	// MaxBackups is the number of rotated files to retain
	// (0 = keep all)
	MaxBackups int
	// Buffered batches writes through a 64KiB buffer
	Buffered bool
}

// RollingFileWriter appends rendered entries to a file and rotates it
// by size or age. Rotated files get a timestamp suffix; the oldest
// backups beyond MaxBackups are removed after each rotation.
type RollingFileWriter struct {
	cfg RollingConfig

	mu         sync.Mutex
	file       *os.File
	buf        *bufio.Writer
	size       int64
	lastRotate time.Time
}

// NewRollingFileWriter creates a rolling file writer.
func NewRollingFileWriter(cfg RollingConfig) *RollingFileWriter {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 10 * 1024 * 1024
	}
	return &RollingFileWriter{cfg: cfg}
}

// RequiredValues declares that file output needs the fully rendered
// line.
func (w *RollingFileWriter) RequiredValues() core.EntryValues {
	return core.EntryValues(core.ValueRendered)
}

// Init opens the active file and records its current size so an
// existing file keeps counting toward the rotation threshold.
func (w *RollingFileWriter) Init(Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return nil
	}
	if w.cfg.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if err := os.MkdirAll(filepath.Dir(w.cfg.Filename), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(w.cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()
	w.lastRotate = time.Now()
	if w.cfg.Buffered {
		w.buf = bufio.NewWriterSize(file, fileBufferSize)
	}
	return nil
}

// Write appends the rendered entry, rotating first when a threshold
// has been crossed.
func (w *RollingFileWriter) Write(entry *core.LogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("rolling file writer %q is not initialized", w.cfg.Filename)
	}
	if err := w.rotateIfNeeded(); err != nil {
		return err
	}

	n, err := io.WriteString(w.target(), entry.Rendered)
	w.size += int64(n)
	return err
}

// Close flushes, syncs and closes the active file.
func (w *RollingFileWriter) Close() error {
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

func (w *RollingFileWriter) target() io.Writer {
	if w.buf != nil {
		return w.buf
	}
	return w.file
}

func (w *RollingFileWriter) rotateIfNeeded() error {
	needRotate := w.size >= w.cfg.MaxSize
	if w.cfg.RotateInterval > 0 && time.Since(w.lastRotate) >= w.cfg.RotateInterval {
		needRotate = true
	}
	if !needRotate {
		return nil
	}
	return w.rotate()
}

// rotate closes the active file, renames it with a timestamp suffix,
// trims old backups and reopens a fresh file.
func (w *RollingFileWriter) rotate() error {
	if err := closeFile(w.file, w.buf); err != nil {
		w.file = nil
		w.buf = nil
		return fmt.Errorf("close before rotation: %w", err)
	}
	w.file = nil
	w.buf = nil

	timestamp := time.Now().Format("2006-01-02T15-04-05.000")
	rotatedName := fmt.Sprintf("%s.%s", w.cfg.Filename, timestamp)
	if err := os.Rename(w.cfg.Filename, rotatedName); err != nil {
		// Keep appending to the original file so the stream survives
		// a failed rotation.
		if file, openErr := os.OpenFile(w.cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); openErr == nil {
			w.file = file
			if w.cfg.Buffered {
				w.buf = bufio.NewWriterSize(file, fileBufferSize)
			}
		}
		return fmt.Errorf("rotate log file: %w", err)
	}

	if w.cfg.MaxBackups > 0 {
		w.cleanupOldBackups()
	}

	file, err := os.OpenFile(w.cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("reopen log file: %w", err)
	}
	w.file = file
	w.size = 0
	w.lastRotate = time.Now()
	if w.cfg.Buffered {
		w.buf = bufio.NewWriterSize(file, fileBufferSize)
	}
	return nil
}

// cleanupOldBackups removes the oldest rotated files beyond
// MaxBackups. Failures are ignored; cleanup runs again after the next
// rotation.
func (w *RollingFileWriter) cleanupOldBackups() {
	base := filepath.Base(w.cfg.Filename)
	pattern := filepath.Join(filepath.Dir(w.cfg.Filename), base+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}

	var backups []string
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), base+".") {
			backups = append(backups, match)
		}
	}
	if len(backups) <= w.cfg.MaxBackups {
		return
	}

	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	for _, old := range backups[:len(backups)-w.cfg.MaxBackups] {
		if err := os.Remove(old); err != nil {
			return
		}
	}
}
