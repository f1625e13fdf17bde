package format

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/tealog/tealog/errs"
)

// FormatError appends a rendition of err and its cause chain to buf.
//
// With maxFrames == 0 only "TypeName: message" is appended, no frames
// and no causes. Otherwise up to max(1, maxFrames) frames follow, one
// "\tat func (file:line)" line each; when frames remain beyond the
// budget an ellipsis line ends the output and the cause chain is not
// entered. A fully printed trace is followed by its cause, recursively,
// with the budget reduced by the frames already printed, so output
// stays bounded across arbitrarily deep chains while every level shows
// at least one frame.
func FormatError(buf *bytes.Buffer, err error, maxFrames int, newLine string) {
	if maxFrames == 0 {
		appendErrorHeader(buf, err)
		return
	}
	formatErrorChain(buf, err, maxFrames, newLine)
}

// formatErrorChain renders one level of the cause chain. A level that
// inherits an exhausted budget still shows one frame; only a top-level
// budget of zero means header-only, and FormatError handles that before
// recursion starts.
func formatErrorChain(buf *bytes.Buffer, err error, budget int, newLine string) {
	appendErrorHeader(buf, err)
	if budget < 1 {
		budget = 1
	}
	printed, truncated := appendStackFrames(buf, err, budget, newLine)
	if truncated {
		buf.WriteString(newLine)
		buf.WriteString("\t...")
		return
	}

	if cause := errors.Unwrap(err); cause != nil {
		buf.WriteString(newLine)
		buf.WriteString("Caused by: ")
		formatErrorChain(buf, cause, budget-printed, newLine)
	}
}

// appendErrorHeader writes "TypeName: message", or just the type name
// when the error has no text of its own.
func appendErrorHeader(buf *bytes.Buffer, err error) {
	fmt.Fprintf(buf, "%T", err)
	if msg := errs.Message(err); msg != "" {
		buf.WriteString(": ")
		buf.WriteString(msg)
	}
}

// appendStackFrames writes up to limit frame lines and reports how
// many it wrote and whether frames remained. Errors without a stack
// write nothing and are never truncated.
func appendStackFrames(buf *bytes.Buffer, err error, limit int, newLine string) (printed int, truncated bool) {
	st, ok := err.(errs.StackTracer)
	if !ok {
		return 0, false
	}
	pcs := st.StackTrace()
	if len(pcs) == 0 {
		return 0, false
	}

	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.Function == "" && frame.File == "" {
			return printed, false
		}
		if printed == limit {
			return printed, true
		}

		buf.WriteString(newLine)
		buf.WriteString("\tat ")
		if frame.Function != "" {
			buf.WriteString(frame.Function)
		} else {
			buf.WriteString("unknown")
		}
		buf.WriteString(" (")
		buf.WriteString(filepath.Base(frame.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(frame.Line))
		buf.WriteByte(')')
		printed++

		if !more {
			return printed, false
		}
	}
}
