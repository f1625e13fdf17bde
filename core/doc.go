// Package core defines the shared types used across the tealog facade.
//
// It provides the Level type for severity filtering, the LogEntry type
// that represents a single log event, and the EntryValues set with
// which writers declare the context they consume. The pipeline computes
// only the declared union, so a configuration whose writers never ask
// for caller context pays nothing for it.
//
// Caller context is captured with one of two strategies. The single-PC
// strategy resolves one program counter and yields only the qualified
// owner of the calling function; a probe at package init verifies that
// the strategy reports the expected frame in this build, and any later
// inconsistency disables it permanently for the process. The frame
// strategy walks runtime.CallersFrames, tolerates inlining, and also
// yields method, file and line.
//
// LogEntry values are built once per log call and never mutated
// afterwards. Background consumers may keep reading an entry long after
// the originating call returned, which is why entries are not pooled.
package core
