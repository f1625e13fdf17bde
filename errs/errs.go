package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// StackTracer is implemented by errors that carry the program
// counters of their construction site. The rendered cause chain
// prints frames only for errors implementing it.
type StackTracer interface {
	StackTrace() []uintptr
}

type withStack struct {
	msg   string
	cause error
	stack []uintptr
}

func callers() []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	stack := make([]uintptr, n)
	copy(stack, pcs[:n])
	return stack
}

// New returns an error annotated with the caller's stack.
func New(msg string) error {
	return &withStack{msg: msg, stack: callers()}
}

// Errorf formats an error annotated with the caller's stack.
func Errorf(format string, args ...any) error {
	return &withStack{msg: fmt.Sprintf(format, args...), stack: callers()}
}

// Wrap returns an error with msg as its own text, the caller's stack,
// and err as its cause. Wrapping nil returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &withStack{msg: msg, cause: err, stack: callers()}
}

func (e *withStack) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *withStack) Unwrap() error {
	return e.cause
}

func (e *withStack) StackTrace() []uintptr {
	return e.stack
}

// Message returns an error's own text without the rendered text of
// its cause. For errors that join both with ": ", the cause suffix is
// trimmed; errors without a cause return Error() unchanged.
func Message(err error) string {
	if ws, ok := err.(*withStack); ok {
		return ws.msg
	}
	msg := err.Error()
	if cause := errors.Unwrap(err); cause != nil {
		if trimmed, ok := strings.CutSuffix(msg, ": "+cause.Error()); ok {
			return trimmed
		}
	}
	return msg
}
