package core

import (
	"time"
)

// EntryValue identifies one piece of log entry context. Writers
// declare the values they consume; the pipeline computes only the
// union of what the active writers declared.
type EntryValue uint16

const (
	// ValueDate is the timestamp of the log call
	ValueDate EntryValue = 1 << iota
	// ValueProcessID is the id of the running process
	ValueProcessID
	// ValueGoroutine is the id of the calling goroutine
	ValueGoroutine
	// ValueClass is the fully qualified owner of the calling function
	ValueClass
	// ValueMethod is the name of the calling function
	ValueMethod
	// ValueFile is the source file of the log call
	ValueFile
	// ValueLine is the source line of the log call
	ValueLine
	// ValueMessage is the rendered message text
	ValueMessage
	// ValueRendered is the fully rendered output line
	ValueRendered
)

// EntryValues is a set of EntryValue flags.
type EntryValues uint16

// Has reports whether the set contains v.
func (s EntryValues) Has(v EntryValue) bool {
	return s&EntryValues(v) != 0
}

// With returns the set extended by v.
func (s EntryValues) With(v EntryValue) EntryValues {
	return s | EntryValues(v)
}

// Union returns the union of both sets.
func (s EntryValues) Union(other EntryValues) EntryValues {
	return s | other
}

// NeedsCaller reports whether any value in the set requires capturing
// the calling function's context.
func (s EntryValues) NeedsCaller() bool {
	const caller = EntryValues(ValueClass | ValueMethod | ValueFile | ValueLine)
	return s&caller != 0
}

// NeedsFullCaller reports whether the set requires more caller context
// than the class name alone.
func (s EntryValues) NeedsFullCaller() bool {
	const full = EntryValues(ValueMethod | ValueFile | ValueLine)
	return s&full != 0
}

// LogEntry is a single log event. Entries are created once per log
// call with exactly the fields the active configuration requires and
// are never mutated afterwards; background consumers may read them
// long after the call has returned. Fields outside the required set
// hold zero values ("" / 0 / nil).
type LogEntry struct {
	// Time is the moment of the log call
	Time time.Time
	// ProcessID is the id of the running process
	ProcessID int
	// GoroutineID is the id of the calling goroutine
	GoroutineID int64
	// Class is the fully qualified owner of the calling function:
	// the package import path, plus ".TypeName" for methods
	Class string
	// Method is the bare name of the calling function
	Method string
	// File is the source file name of the log call
	File string
	// Line is the source line of the log call, -1 when unknown
	Line int
	// Level is the severity of the call
	Level Level
	// Message is the rendered message text, without any error text
	Message string
	// HasMessage reports whether the call supplied a message at all;
	// a supplied message may still render to empty text
	HasMessage bool
	// Err is the error passed to the log call, or nil
	Err error
	// Rendered is the fully rendered output line including the
	// trailing newline, or "" when no writer asked for it
	Rendered string
}

// PackageName returns the package part of the Class.
func (e *LogEntry) PackageName() string {
	pkg, _ := SplitQualified(e.Class)
	return pkg
}

// ClassName returns the Class without its package part.
func (e *LogEntry) ClassName() string {
	_, name := SplitQualified(e.Class)
	return name
}

// SplitQualified splits a fully qualified name into its container and
// its final element. The separator is the last '.' that follows the
// last '/', so both import paths ("example.com/app/pkg.Type") and
// dotted names ("com.example.Foo") split at the element boundary. A
// bare import path splits at its last '/'.
func SplitQualified(qualified string) (container, name string) {
	slash := -1
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '/' {
			slash = i
			break
		}
	}
	for i := len(qualified) - 1; i > slash; i-- {
		if qualified[i] == '.' {
			return qualified[:i], qualified[i+1:]
		}
	}
	if slash >= 0 {
		return qualified[:slash], qualified[slash+1:]
	}
	return "", qualified
}
