package logger

import (
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/format"
	"github.com/tealog/tealog/writers"
)

// levelOverride pins a severity threshold to a qualified name. The
// override covers the name itself and everything nested under it.
type levelOverride struct {
	name  string
	level core.Level
}

// contextNeed classifies how much caller context a log call must
// capture under a configuration.
type contextNeed int8

const (
	// needNone: neither gating nor any required value touches the caller
	needNone contextNeed = iota
	// needClass: the class name alone suffices (level overrides, or
	// class tokens without method/file/line)
	needClass
	// needFull: method, file or line is required
	needFull
)

// Configuration is one immutable snapshot of the facade's behavior:
// levels and overrides, the compiled format, the writer list, the
// dispatch mode and the locale. A snapshot is published by a single
// atomic pointer swap and never mutated afterwards; every log call
// loads the pointer once and works against that snapshot throughout.
type Configuration struct {
	level     core.Level
	overrides []levelOverride // sorted by name
	minLevel  core.Level

	required core.EntryValues
	renderer *format.Renderer

	writerList    []writers.Writer
	async         bool
	backgroundCfg writers.BackgroundConfig
	background    *writers.Background

	locale  language.Tag
	printer *message.Printer

	maxStackTraceDepth int
	coarseClock        bool
	need               contextNeed
}

// Level returns the global severity threshold.
func (c *Configuration) Level() core.Level {
	return c.level
}

// RequiredValues returns the union of every entry value the active
// writers and the compiled format consume.
func (c *Configuration) RequiredValues() core.EntryValues {
	return c.required
}

// Async reports whether entries are dispatched through the background
// facility.
func (c *Configuration) Async() bool {
	return c.async
}

// Writers returns a copy of the active writer list.
func (c *Configuration) Writers() []writers.Writer {
	return append([]writers.Writer(nil), c.writerList...)
}

// Tokens returns the compiled format tokens.
func (c *Configuration) Tokens() []format.Token {
	return c.renderer.Tokens()
}

// Locale returns the locale applied to positional message arguments.
func (c *Configuration) Locale() language.Tag {
	return c.locale
}

// MaxStackTraceDepth returns the frame budget for rendered errors.
func (c *Configuration) MaxStackTraceDepth() int {
	return c.maxStackTraceDepth
}

// OutputPossible reports whether any writer could emit at the given
// level. It is the cheapest gate on the hot path: one comparison
// against the lowest threshold the global level or any override
// admits, pinned to OFF when no writers are configured.
func (c *Configuration) OutputPossible(level core.Level) bool {
	return c.minLevel.Enables(level)
}

// EffectiveLevel resolves the severity threshold for a qualified name:
// the override for the name itself, else the override for the longest
// enclosing name, else the global level.
func (c *Configuration) EffectiveLevel(name string) core.Level {
	if len(c.overrides) == 0 {
		return c.level
	}
	for name != "" {
		if level, ok := c.levelOf(name); ok {
			return level
		}
		name = parentName(name)
	}
	return c.level
}

func (c *Configuration) levelOf(name string) (core.Level, bool) {
	i := sort.Search(len(c.overrides), func(i int) bool {
		return c.overrides[i].name >= name
	})
	if i < len(c.overrides) && c.overrides[i].name == name {
		return c.overrides[i].level, true
	}
	return core.OffLevel, false
}

func (c *Configuration) hasWriter(w writers.Writer) bool {
	for _, existing := range c.writerList {
		if existing == w {
			return true
		}
	}
	return false
}

// now returns the entry timestamp per the configured clock.
func (c *Configuration) now() time.Time {
	if c.coarseClock {
		return core.CoarseNow()
	}
	return time.Now()
}

// parentName cuts the last name element: "example.com/app/pkg.Conn"
// becomes "example.com/app/pkg", "com.foo.Bar" becomes "com.foo", and
// a bare name becomes "".
func parentName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' || name[i] == '/' {
			return name[:i]
		}
	}
	return ""
}
