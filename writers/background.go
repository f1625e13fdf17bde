package writers

import (
	"sync"
	"time"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/internal/diag"
)

// BackgroundConfig tunes the background dispatch facility.
type BackgroundConfig struct {
	// Capacity is the per-writer queue size (default 1024)
	Capacity int
	// Policies maps severity to overflow behavior
	// (default DefaultLevelPolicies)
	Policies map[core.Level]OverflowPolicy
	// BlockTimeout bounds a Block enqueue before the entry is written
	// inline (default 100ms)
	BlockTimeout time.Duration
	// DrainTimeout bounds queue draining on Close (default 5s)
	DrainTimeout time.Duration
}

func (cfg BackgroundConfig) withDefaults() BackgroundConfig {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}
	if cfg.Policies == nil {
		cfg.Policies = DefaultLevelPolicies()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	return cfg
}

// Background dispatches entries to writers through one bounded FIFO
// queue and one consumer goroutine per writer. Ordering is preserved
// per writer; nothing is guaranteed across writers. The facility
// outlives individual configurations, so a writer carried from one
// configuration to the next keeps its queue and its ordering.
type Background struct {
	cfg    BackgroundConfig
	closed chan struct{}
	wg     sync.WaitGroup

	mu     sync.RWMutex
	queues map[Writer]*backgroundQueue
}

type backgroundQueue struct {
	writer Writer
	ch     chan *core.LogEntry
	stats  *Stats
}

// NewBackground creates the facility. Consumers start lazily, one per
// writer, on the first entry enqueued for that writer.
func NewBackground(cfg BackgroundConfig) *Background {
	return &Background{
		cfg:    cfg.withDefaults(),
		closed: make(chan struct{}),
		queues: make(map[Writer]*backgroundQueue),
	}
}

// Enqueue hands an entry to the writer's queue, applying the overflow
// policy for the entry's level when the queue is full. After Close the
// entry is written inline.
func (b *Background) Enqueue(w Writer, entry *core.LogEntry) {
	q := b.queue(w)
	if q == nil {
		b.write(w, nil, entry)
		return
	}

	policy, ok := b.cfg.Policies[entry.Level]
	if !ok {
		policy = DropNewest
	}

	switch policy {
	case Block:
		select {
		case q.ch <- entry:
		default:
			select {
			case q.ch <- entry:
			case <-time.After(b.cfg.BlockTimeout):
				// Timeout - fall back to a synchronous write
				q.stats.IncrementBlocked()
				b.write(q.writer, q.stats, entry)
			case <-b.closed:
				b.write(q.writer, q.stats, entry)
			}
		}

	case DropOldest:
		select {
		case q.ch <- entry:
		default:
			// Queue full - drop the oldest and retry once
			select {
			case <-q.ch:
				q.stats.IncrementDropped(entry.Level)
			default:
			}
			select {
			case q.ch <- entry:
			default:
				// Still full, drop this one
				q.stats.IncrementDropped(entry.Level)
			}
		}

	case DropNewest:
		fallthrough
	default:
		select {
		case q.ch <- entry:
		default:
			// Queue full - drop this entry
			q.stats.IncrementDropped(entry.Level)
		}
	}
}

// Stats returns the statistics of the writer's queue.
func (b *Background) Stats(w Writer) (Snapshot, bool) {
	b.mu.RLock()
	q := b.queues[w]
	b.mu.RUnlock()
	if q == nil {
		return Snapshot{}, false
	}
	return q.stats.Snapshot(), true
}

// Close stops all consumers after draining their queues, bounded by
// the drain timeout. It is idempotent. Entries enqueued after Close
// are written inline by the caller.
func (b *Background) Close() error {
	select {
	case <-b.closed:
		return nil // Already closed
	default:
	}

	close(b.closed)
	b.wg.Wait()
	return nil
}

// queue returns the writer's queue, starting its consumer on first
// use. It returns nil once the facility is closed, for existing queues
// too: their consumers have exited, so an enqueue would strand the
// entry in the channel.
func (b *Background) queue(w Writer) *backgroundQueue {
	select {
	case <-b.closed:
		return nil
	default:
	}

	b.mu.RLock()
	q := b.queues[w]
	b.mu.RUnlock()
	if q != nil {
		return q
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if q = b.queues[w]; q != nil {
		return q
	}
	select {
	case <-b.closed:
		return nil
	default:
	}

	q = &backgroundQueue{
		writer: w,
		ch:     make(chan *core.LogEntry, b.cfg.Capacity),
		stats:  NewStats(),
	}
	b.queues[w] = q
	b.wg.Add(1)
	go b.consume(q)
	return q
}

// consume drains one writer's queue in FIFO order.
func (b *Background) consume(q *backgroundQueue) {
	defer b.wg.Done()

	for {
		select {
		case entry := <-q.ch:
			b.write(q.writer, q.stats, entry)
			// Batch drain: process queued entries without re-entering
			// the outer select
		batchDrain:
			for {
				select {
				case entry := <-q.ch:
					b.write(q.writer, q.stats, entry)
				default:
					break batchDrain
				}
			}
		case <-b.closed:
			deadline := time.After(b.cfg.DrainTimeout)
		drainLoop:
			for {
				select {
				case entry := <-q.ch:
					b.write(q.writer, q.stats, entry)
				case <-deadline:
					// Timeout reached, stop draining
					break drainLoop
				default:
					// Queue empty
					break drainLoop
				}
			}
			return
		}
	}
}

// write pushes one entry to a writer. A writer failure is reported to
// the diagnostic sink and never stops the consumer.
func (b *Background) write(w Writer, stats *Stats, entry *core.LogEntry) {
	if err := w.Write(entry); err != nil {
		diag.Error(err, "failed to write log entry")
		return
	}
	if stats != nil {
		stats.IncrementProcessed()
	}
}
