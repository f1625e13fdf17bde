package writers

import (
	"sync/atomic"

	"github.com/tealog/tealog/core"
)

// OverflowPolicy defines how to handle full background queues
type OverflowPolicy int

const (
	// DropNewest drops the entry being enqueued when the queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest queued entry when the queue is full
	DropOldest
	// Block waits for space up to a timeout, then writes inline
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicies returns the default per-level overflow
// policies: everything below ERROR is droppable, errors block.
func DefaultLevelPolicies() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.TraceLevel:   DropNewest,
		core.DebugLevel:   DropNewest,
		core.InfoLevel:    DropNewest,
		core.WarningLevel: DropNewest,
		core.ErrorLevel:   Block,
	}
}

// Stats tracks the dispatch statistics of one background queue.
type Stats struct {
	dropped   [int(core.ErrorLevel) + 1]atomic.Uint64
	blocked   atomic.Uint64
	processed atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped counts one dropped entry at the given level.
func (s *Stats) IncrementDropped(level core.Level) {
	if level >= core.TraceLevel && level <= core.ErrorLevel {
		s.dropped[level].Add(1)
	}
}

// IncrementBlocked counts one enqueue that hit the block timeout.
func (s *Stats) IncrementBlocked() {
	s.blocked.Add(1)
}

// IncrementProcessed counts one entry written successfully.
func (s *Stats) IncrementProcessed() {
	s.processed.Add(1)
}

// Dropped returns the dropped count for a level.
func (s *Stats) Dropped(level core.Level) uint64 {
	if level >= core.TraceLevel && level <= core.ErrorLevel {
		return s.dropped[level].Load()
	}
	return 0
}

// TotalDropped returns the dropped count across all levels.
func (s *Stats) TotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Blocked returns the blocked count.
func (s *Stats) Blocked() uint64 {
	return s.blocked.Load()
}

// Processed returns the processed count.
func (s *Stats) Processed() uint64 {
	return s.processed.Load()
}

// Reset sets all counters back to zero.
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.blocked.Store(0)
	s.processed.Store(0)
}

// Snapshot is a point-in-time copy of queue statistics.
type Snapshot struct {
	Dropped   map[core.Level]uint64
	Blocked   uint64
	Processed uint64
}

// Snapshot returns a copy of the current statistics.
func (s *Stats) Snapshot() Snapshot {
	dropped := make(map[core.Level]uint64, len(s.dropped))
	for i := range s.dropped {
		dropped[core.Level(i)] = s.dropped[i].Load()
	}
	return Snapshot{
		Dropped:   dropped,
		Blocked:   s.blocked.Load(),
		Processed: s.processed.Load(),
	}
}
