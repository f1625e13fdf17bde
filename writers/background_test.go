package writers

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/errs"
	"github.com/tealog/tealog/internal/diag"
)

// memoryWriter collects entries; optional gating makes queue states
// deterministic in overflow tests.
type memoryWriter struct {
	mu      sync.Mutex
	entries []*core.LogEntry
	fail    error

	entered chan struct{} // signaled at the start of every Write
	release chan struct{} // when set, Write waits for it to close
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{}
}

func newGatedWriter() *memoryWriter {
	return &memoryWriter{
		entered: make(chan struct{}, 128),
		release: make(chan struct{}),
	}
}

func (w *memoryWriter) RequiredValues() core.EntryValues {
	return core.EntryValues(core.ValueMessage)
}

func (w *memoryWriter) Init(Config) error { return nil }

func (w *memoryWriter) Write(entry *core.LogEntry) error {
	if w.entered != nil {
		w.entered <- struct{}{}
	}
	if w.release != nil {
		<-w.release
	}
	if w.fail != nil {
		return w.fail
	}
	w.mu.Lock()
	w.entries = append(w.entries, entry)
	w.mu.Unlock()
	return nil
}

func (w *memoryWriter) Close() error { return nil }

func (w *memoryWriter) collected() []*core.LogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*core.LogEntry(nil), w.entries...)
}

func infoEntry(line int) *core.LogEntry {
	return &core.LogEntry{Level: core.InfoLevel, Line: line}
}

func TestBackgroundFIFOPerWriter(t *testing.T) {
	w := newMemoryWriter()
	b := NewBackground(BackgroundConfig{Capacity: 512})

	const n = 200
	for i := 0; i < n; i++ {
		b.Enqueue(w, infoEntry(i))
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got := w.collected()
	if len(got) != n {
		t.Fatalf("Expected %d entries, got %d", n, len(got))
	}
	for i, entry := range got {
		if entry.Line != i {
			t.Fatalf("Entry %d has line %d; submission order not preserved", i, entry.Line)
		}
	}
}

func TestBackgroundDropNewest(t *testing.T) {
	w := newGatedWriter()
	b := NewBackground(BackgroundConfig{Capacity: 1})

	b.Enqueue(w, infoEntry(1))
	<-w.entered // consumer is now parked inside Write(1), queue empty

	b.Enqueue(w, infoEntry(2)) // fills the queue
	b.Enqueue(w, infoEntry(3)) // full: dropped

	snap, ok := b.Stats(w)
	if !ok {
		t.Fatal("Stats() found no queue")
	}
	if snap.Dropped[core.InfoLevel] != 1 {
		t.Errorf("Dropped = %d, want 1", snap.Dropped[core.InfoLevel])
	}

	close(w.release)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got := w.collected()
	if len(got) != 2 {
		t.Fatalf("Expected 2 surviving entries, got %d", len(got))
	}
	if got[0].Line != 1 || got[1].Line != 2 {
		t.Errorf("Surviving lines = %d, %d; want 1, 2", got[0].Line, got[1].Line)
	}
}

func TestBackgroundDropOldest(t *testing.T) {
	w := newGatedWriter()
	b := NewBackground(BackgroundConfig{
		Capacity: 2,
		Policies: map[core.Level]OverflowPolicy{core.InfoLevel: DropOldest},
	})

	b.Enqueue(w, infoEntry(1))
	<-w.entered // consumer parked in Write(1)

	b.Enqueue(w, infoEntry(2))
	b.Enqueue(w, infoEntry(3))
	b.Enqueue(w, infoEntry(4)) // full: 2 is evicted

	close(w.release)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	var lines []int
	for _, entry := range w.collected() {
		lines = append(lines, entry.Line)
	}
	if len(lines) != 3 || lines[0] != 1 || lines[1] != 3 || lines[2] != 4 {
		t.Errorf("Lines = %v, want [1 3 4]", lines)
	}

	snap, _ := b.Stats(w)
	if snap.Dropped[core.InfoLevel] != 1 {
		t.Errorf("Dropped = %d, want 1", snap.Dropped[core.InfoLevel])
	}
}

func TestBackgroundBlockTimeoutFallsBackInline(t *testing.T) {
	w := newGatedWriter()
	b := NewBackground(BackgroundConfig{
		Capacity:     1,
		BlockTimeout: 20 * time.Millisecond,
	})

	errEntry := &core.LogEntry{Level: core.ErrorLevel, Line: 3}

	b.Enqueue(w, infoEntry(1))
	<-w.entered // consumer parked in Write(1)
	b.Enqueue(w, infoEntry(2))

	done := make(chan struct{})
	go func() {
		b.Enqueue(w, errEntry) // Block policy: waits, times out, writes inline
		close(done)
	}()

	// The inline fallback write also parks on the gate; open it.
	time.Sleep(50 * time.Millisecond)
	close(w.release)
	<-done

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	snap, _ := b.Stats(w)
	if snap.Blocked == 0 {
		t.Error("Expected a blocked enqueue to be counted")
	}

	found := false
	for _, entry := range w.collected() {
		if entry.Line == 3 {
			found = true
		}
	}
	if !found {
		t.Error("Blocked entry was lost; Block policy must fall back to an inline write")
	}
}

func TestBackgroundWriterFailureIsIsolated(t *testing.T) {
	var diagBuf bytes.Buffer
	prev := diag.SetOutput(&diagBuf)
	defer diag.SetOutput(prev)

	w := newMemoryWriter()
	w.fail = errs.New("disk full")
	b := NewBackground(BackgroundConfig{Capacity: 8})

	b.Enqueue(w, infoEntry(1))
	b.Enqueue(w, infoEntry(2))
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if !strings.Contains(diagBuf.String(), "failed to write log entry") {
		t.Errorf("Writer failure not reported, diag output: %q", diagBuf.String())
	}

	snap, _ := b.Stats(w)
	if snap.Processed != 0 {
		t.Errorf("Failed writes counted as processed: %d", snap.Processed)
	}
}

func TestBackgroundCloseIdempotent(t *testing.T) {
	b := NewBackground(BackgroundConfig{})
	if err := b.Close(); err != nil {
		t.Fatalf("First Close() error: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Second Close() error: %v", err)
	}
}

func TestBackgroundEnqueueAfterClose(t *testing.T) {
	w := newMemoryWriter()
	b := NewBackground(BackgroundConfig{})
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	b.Enqueue(w, infoEntry(9))

	got := w.collected()
	if len(got) != 1 || got[0].Line != 9 {
		t.Errorf("Entry after Close must be written inline, got %v", got)
	}
}

func TestBackgroundEnqueueAfterCloseWithExistingQueue(t *testing.T) {
	w := newMemoryWriter()
	b := NewBackground(BackgroundConfig{Capacity: 8})

	b.Enqueue(w, infoEntry(1))
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// The writer's queue exists but its consumer is gone; the entry
	// must fall through to an inline write instead of the channel.
	b.Enqueue(w, infoEntry(2))

	got := w.collected()
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[1].Line != 2 {
		t.Errorf("Post-Close entry has line %d, want 2", got[1].Line)
	}
}

func TestBackgroundIndependentWriters(t *testing.T) {
	w1 := newMemoryWriter()
	w2 := newMemoryWriter()
	b := NewBackground(BackgroundConfig{Capacity: 64})

	for i := 0; i < 10; i++ {
		b.Enqueue(w1, infoEntry(i))
		b.Enqueue(w2, infoEntry(100+i))
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if len(w1.collected()) != 10 || len(w2.collected()) != 10 {
		t.Errorf("Entries crossed queues: %d and %d", len(w1.collected()), len(w2.collected()))
	}
	for i, entry := range w2.collected() {
		if entry.Line != 100+i {
			t.Fatalf("Writer 2 order broken at %d: line %d", i, entry.Line)
		}
	}
}
