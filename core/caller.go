package core

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/tealog/tealog/internal/diag"
)

// UnknownName is the sentinel for caller context that could not be
// captured. Lines default to UnknownLine.
const (
	UnknownName = "<unknown>"
	UnknownLine = -1
)

// CallerInfo is the captured context of a log call site.
type CallerInfo struct {
	// Class is the fully qualified owner of the function: the package
	// import path, plus ".TypeName" for methods
	Class string
	// Method is the bare function name
	Method string
	// File is the base name of the source file
	File string
	// Line is the source line, UnknownLine when not captured
	Line int
	// Defined reports whether the capture succeeded
	Defined bool
}

// UnknownCaller returns the sentinel CallerInfo used when capture
// fails or is skipped.
func UnknownCaller() CallerInfo {
	return CallerInfo{
		Class:  UnknownName,
		Method: UnknownName,
		File:   UnknownName,
		Line:   UnknownLine,
	}
}

// fastCallerOK holds the probe verdict. It flips to false, once and
// permanently, when the single-PC strategy reports an inconsistent
// frame.
var fastCallerOK atomic.Bool

func init() {
	fastCallerOK.Store(callerProbe())
}

//go:noinline
func callerProbe() bool {
	name, ok := fastFuncName(0)
	return ok && strings.HasSuffix(name, ".callerProbe")
}

// FastCallerAvailable reports whether the single-PC class capture is
// trusted in this process.
func FastCallerAvailable() bool {
	return fastCallerOK.Load()
}

// DisableFastCaller permanently switches class capture to the frame
// strategy. Callers that can cross-check a captured class against the
// frame strategy use this when the two disagree, which happens when a
// facade entry point was inlined into its caller.
func DisableFastCaller() {
	fastCallerOK.Store(false)
}

// fastFuncName resolves the qualified function name skip frames above
// the caller of fastFuncName using a single program counter.
func fastFuncName(skip int) (string, bool) {
	var pc [1]uintptr
	if runtime.Callers(skip+2, pc[:]) < 1 {
		return "", false
	}
	fn := runtime.FuncForPC(pc[0])
	if fn == nil {
		return "", false
	}
	return fn.Name(), true
}

// CaptureClass returns the fully qualified owner of the function skip
// frames above the caller of CaptureClass. It uses the single-PC
// strategy while the probe verdict holds and falls back to the frame
// strategy otherwise.
func CaptureClass(skip int) string {
	if fastCallerOK.Load() {
		if name, ok := fastFuncName(skip + 1); ok {
			class, _ := splitFunction(name)
			return class
		}
		fastCallerOK.Store(false)
	}
	return CaptureCaller(skip + 1).Class
}

// CaptureCaller returns the full context of the frame skip frames
// above the caller of CaptureCaller. The frame walk resolves inlined
// functions to their logical frame. A failed capture is reported to
// the diagnostic sink and yields the unknown sentinels.
func CaptureCaller(skip int) CallerInfo {
	var pc [1]uintptr
	if runtime.Callers(skip+2, pc[:]) < 1 {
		diag.Warn(nil, "caller capture found no stack frame")
		return UnknownCaller()
	}
	frame, _ := runtime.CallersFrames(pc[:]).Next()
	if frame.Function == "" {
		diag.Warn(nil, "caller capture resolved no function")
		return UnknownCaller()
	}
	return frameInfo(frame)
}

// ResolvePC resolves a program counter captured somewhere else, such as
// one carried by a foreign logging record, into caller context.
func ResolvePC(pc uintptr) CallerInfo {
	if pc == 0 {
		return UnknownCaller()
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.Function == "" {
		return UnknownCaller()
	}
	return frameInfo(frame)
}

func frameInfo(frame runtime.Frame) CallerInfo {
	class, method := splitFunction(frame.Function)
	info := CallerInfo{
		Class:   class,
		Method:  method,
		File:    UnknownName,
		Line:    UnknownLine,
		Defined: true,
	}
	if frame.File != "" {
		info.File = filepath.Base(frame.File)
	}
	if frame.Line > 0 {
		info.Line = frame.Line
	}
	return info
}

// splitFunction splits a runtime function name like
// "example.com/app/pkg.(*Conn).Close" into the qualified owner
// ("example.com/app/pkg.Conn") and the bare name ("Close"). Generic
// instantiation suffixes are stripped.
func splitFunction(qualified string) (class, method string) {
	pkg := qualified
	rest := ""
	slash := strings.LastIndexByte(qualified, '/')
	if dot := strings.IndexByte(qualified[slash+1:], '.'); dot >= 0 {
		pkg = qualified[:slash+1+dot]
		rest = qualified[slash+1+dot+1:]
	} else {
		return "", stripInstantiation(qualified)
	}
	rest = stripInstantiation(rest)
	if dot := strings.LastIndexByte(rest, '.'); dot >= 0 {
		receiver := strings.ReplaceAll(rest[:dot], "(*", "")
		receiver = strings.ReplaceAll(receiver, ")", "")
		return pkg + "." + receiver, rest[dot+1:]
	}
	return pkg, rest
}

// stripInstantiation removes generic instantiation spans such as
// "[go.shape.int]" so the dots inside them do not look like name
// separators.
func stripInstantiation(name string) string {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return name
	}
	depth := 0
	for i := open; i < len(name); i++ {
		switch name[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return name[:open] + stripInstantiation(name[i+1:])
			}
		}
	}
	return name[:open]
}
