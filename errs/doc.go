// Package errs provides error constructors that capture the call
// stack of their construction site and record explicit causes.
//
// The standard library's errors carry no stack information, so a
// rendered cause chain built from them has nothing to show per frame.
// Errors created with New, Errorf or Wrap implement StackTracer and
// unwrap to their cause, which lets the output pipeline print
// "Caused by" chains with real source locations.
package errs
