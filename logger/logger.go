package logger

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/errs"
	"github.com/tealog/tealog/format"
	"github.com/tealog/tealog/internal/diag"
	"github.com/tealog/tealog/writers"
)

// current is the active configuration. Log calls load it exactly once
// and use that snapshot for their whole duration; Configure swaps it
// atomically.
var current atomic.Pointer[Configuration]

// configureMu serializes Configure and Shutdown. Log calls never take
// it.
var configureMu sync.Mutex

// callSkip is the number of facade frames between the capture helper
// and a public entry point's caller: captureContext, output and the
// public function itself. Every public entry point must sit exactly
// one call above output or caller context comes out shifted.
const callSkip = 3

// facadeClass is this package's qualified name as the capture
// strategies report it. A class capture landing here means the skip
// arithmetic broke.
const facadeClass = "github.com/tealog/tealog/logger"

// Trace logs at TRACE severity. message may be a plain value, a
// pattern with {0}-style placeholders filled from arguments, or an
// error; an error followed by a string logs both.
func Trace(message any, arguments ...any) {
	output(0, core.TraceLevel, nil, message, arguments)
}

// Debug logs at DEBUG severity. See Trace for the accepted shapes.
func Debug(message any, arguments ...any) {
	output(0, core.DebugLevel, nil, message, arguments)
}

// Info logs at INFO severity. See Trace for the accepted shapes.
func Info(message any, arguments ...any) {
	output(0, core.InfoLevel, nil, message, arguments)
}

// Warn logs at WARNING severity. See Trace for the accepted shapes.
func Warn(message any, arguments ...any) {
	output(0, core.WarningLevel, nil, message, arguments)
}

// Error logs at ERROR severity. See Trace for the accepted shapes.
func Error(message any, arguments ...any) {
	output(0, core.ErrorLevel, nil, message, arguments)
}

// Output logs with an explicit wrapper depth: 0 attributes the call to
// the immediate caller of Output, 1 to its caller, and so on. Logging
// helpers that wrap this facade pass their own frame count so caller
// context keeps pointing at their call sites.
func Output(depth int, level core.Level, err error, message any, arguments ...any) {
	output(depth, level, err, message, arguments)
}

// OutputWithCaller logs with caller context the caller already holds.
// Bridges use it when the host framework hands them a resolved call
// site instead of a live stack.
func OutputWithCaller(caller core.CallerInfo, level core.Level, err error, message any, arguments ...any) {
	cfg := current.Load()
	if cfg == nil || !cfg.OutputPossible(level) {
		return
	}
	err, message, arguments = splitCall(err, message, arguments)
	if !cfg.EffectiveLevel(caller.Class).Enables(level) {
		return
	}
	emit(cfg, caller, level, err, message, arguments)
}

// ActiveLevel returns the global severity threshold of the active
// configuration.
func ActiveLevel() core.Level {
	if cfg := current.Load(); cfg != nil {
		return cfg.level
	}
	return core.OffLevel
}

// LevelFor resolves the severity threshold that applies to a qualified
// package or type name under the active configuration.
func LevelFor(name string) core.Level {
	if cfg := current.Load(); cfg != nil {
		return cfg.EffectiveLevel(name)
	}
	return core.OffLevel
}

// Enabled reports whether a call at the given level could produce
// output under the active configuration. Callers use it to skip
// expensive argument construction.
func Enabled(level core.Level) bool {
	if cfg := current.Load(); cfg != nil {
		return cfg.OutputPossible(level)
	}
	return false
}

// Configure installs a configuration. Writers not present in the
// previous configuration are initialized before the swap; an
// initialization failure aborts the swap and is returned — it is the
// only failure a caller ever sees synchronously. Writers carried over
// are not re-initialized, and writers dropped by the new configuration
// are not closed here (Shutdown owns teardown).
func Configure(cfg *Configuration) error {
	configureMu.Lock()
	defer configureMu.Unlock()

	old := current.Load()

	if cfg.async {
		// Reuse a running facility so per-writer FIFO holds across the
		// swap for surviving writers.
		if old != nil && old.background != nil {
			cfg.background = old.background
		} else {
			cfg.background = writers.NewBackground(cfg.backgroundCfg)
		}
	}
	if cfg.coarseClock {
		core.StartCoarseClock()
	}

	for _, w := range cfg.writerList {
		if old != nil && old.hasWriter(w) {
			continue
		}
		if err := w.Init(cfg); err != nil {
			return errs.Wrap(err, "failed to initialize writer")
		}
	}

	current.Store(cfg)

	// A facility that did not carry over is drained after the swap so
	// queued entries still reach their writers.
	if old != nil && old.background != nil && old.background != cfg.background {
		if err := old.background.Close(); err != nil {
			diag.Warn(err, "failed to drain background queues")
		}
	}
	return nil
}

// Shutdown drains the background facility, closes every writer of the
// active configuration and deactivates output. Close failures are
// aggregated into one error.
func Shutdown() error {
	configureMu.Lock()
	defer configureMu.Unlock()

	old := current.Swap(NewConfigurator().build())
	if old == nil {
		return nil
	}
	var err error
	if old.background != nil {
		err = multierr.Append(err, old.background.Close())
	}
	for _, w := range old.writerList {
		err = multierr.Append(err, w.Close())
	}
	return err
}

// output is the pipeline entry shared by every public function that
// captures its own caller. depth counts the caller's wrapper frames on
// top of the public entry point.
func output(depth int, level core.Level, err error, message any, arguments []any) {
	cfg := current.Load()
	if cfg == nil || !cfg.OutputPossible(level) {
		return
	}
	err, message, arguments = splitCall(err, message, arguments)

	caller := core.UnknownCaller()
	captured := false

	// Overrides force caller capture before the level cut; without
	// them the global threshold decides and the caller stays untouched.
	if len(cfg.overrides) > 0 {
		caller = captureContext(cfg, depth)
		captured = true
		if !cfg.EffectiveLevel(caller.Class).Enables(level) {
			return
		}
	} else if !cfg.level.Enables(level) {
		return
	}

	if !captured && cfg.need != needNone {
		caller = captureContext(cfg, depth)
	}
	emit(cfg, caller, level, err, message, arguments)
}

// splitCall collapses the call shapes: a leading error moves to the
// error slot, optionally followed by a message pattern and its
// arguments. An explicit error (bridge entry points) passes through
// untouched.
func splitCall(err error, message any, arguments []any) (error, any, []any) {
	if err != nil {
		return err, message, arguments
	}
	e, ok := message.(error)
	if !ok {
		return nil, message, arguments
	}
	if len(arguments) == 0 {
		return e, nil, nil
	}
	if pattern, ok := arguments[0].(string); ok {
		return e, pattern, arguments[1:]
	}
	return nil, message, arguments
}

// captureContext resolves the caller per the configuration's context
// need. A fast class capture that lands inside this package means the
// skip arithmetic was broken by inlining somewhere below us; the frame
// strategy re-resolves the call and, when it disagrees, the fast
// strategy is permanently disabled.
func captureContext(cfg *Configuration, depth int) core.CallerInfo {
	if cfg.need == needFull || !core.FastCallerAvailable() {
		return core.CaptureCaller(callSkip + depth)
	}

	class := core.CaptureClass(callSkip + depth)
	if class == facadeClass || strings.HasPrefix(class, facadeClass+".") {
		info := core.CaptureCaller(callSkip + depth)
		if info.Class != class {
			core.DisableFastCaller()
		}
		return info
	}

	info := core.UnknownCaller()
	info.Class = class
	info.Defined = true
	return info
}

// emit builds the entry and hands it to the writers. Render failures
// go to the diagnostic sink; the call then produces no output.
func emit(cfg *Configuration, caller core.CallerInfo, level core.Level, err error, message any, arguments []any) {
	entry, renderErr := buildEntry(cfg, caller, level, err, message, arguments)
	if renderErr != nil {
		diag.Error(renderErr, "failed to render log message")
		return
	}
	dispatch(cfg, entry)
}

// buildEntry assembles the entry, computing only the values the
// configuration requires. Everything else keeps its zero value.
func buildEntry(cfg *Configuration, caller core.CallerInfo, level core.Level, err error, message any, arguments []any) (*core.LogEntry, error) {
	required := cfg.required
	entry := &core.LogEntry{Level: level, Err: err}

	if required.Has(core.ValueDate) {
		entry.Time = cfg.now()
	}
	if required.Has(core.ValueProcessID) {
		entry.ProcessID = core.ProcessID()
	}
	if required.Has(core.ValueGoroutine) {
		entry.GoroutineID = core.GoroutineID()
	}
	if required.NeedsCaller() {
		entry.Class = caller.Class
		entry.Method = caller.Method
		entry.File = caller.File
		entry.Line = caller.Line
	}
	if required.Has(core.ValueMessage) {
		text, renderErr := renderMessage(cfg, message, arguments)
		if renderErr != nil {
			return nil, renderErr
		}
		entry.Message = text
		entry.HasMessage = message != nil
	}
	if required.Has(core.ValueRendered) {
		entry.Rendered = cfg.renderer.RenderString(entry)
	}
	return entry, nil
}

// renderMessage resolves the message text per call shape: nil yields
// no text, a string pattern with arguments goes through positional
// substitution under the configured locale, anything else renders to
// its verbatim textual representation.
func renderMessage(cfg *Configuration, message any, arguments []any) (string, error) {
	switch {
	case message == nil:
		return "", nil
	case len(arguments) == 0:
		return format.RenderValue(message), nil
	default:
		pattern, ok := message.(string)
		if !ok {
			return format.RenderValue(message), nil
		}
		return format.RenderMessage(cfg.printer, pattern, arguments)
	}
}

// dispatch pushes the entry to every writer in configured order. A
// synchronous write failure is reported and does not keep later
// writers from the entry.
func dispatch(cfg *Configuration, entry *core.LogEntry) {
	if cfg.background != nil {
		for _, w := range cfg.writerList {
			cfg.background.Enqueue(w, entry)
		}
		return
	}
	for _, w := range cfg.writerList {
		if err := w.Write(entry); err != nil {
			diag.Error(err, "failed to write log entry")
		}
	}
}
