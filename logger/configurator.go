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

// DefaultPattern is the format pattern every configuration starts
// from.
const DefaultPattern = "{date} [{thread}] {level}: {message}"

// DefaultMaxStackTraceDepth is the error frame budget configurations
// start from.
const DefaultMaxStackTraceDepth = 40

// Configurator assembles a Configuration step by step. It starts from
// the defaults (INFO, the default pattern, no writers, synchronous
// dispatch) and activates the result atomically. A Configurator is not
// safe for concurrent use; the Configuration it produces is.
type Configurator struct {
	level      core.Level
	overrides  map[string]core.Level
	pattern    string
	locale     language.Tag
	maxDepth   int
	coarse     bool
	async      bool
	writerList []writers.Writer
	background writers.BackgroundConfig
}

// NewConfigurator returns a configurator holding the defaults. Without
// at least one writer the resulting configuration emits nothing.
func NewConfigurator() *Configurator {
	return &Configurator{
		level:     core.InfoLevel,
		overrides: make(map[string]core.Level),
		pattern:   DefaultPattern,
		locale:    language.Und,
		maxDepth:  DefaultMaxStackTraceDepth,
	}
}

// Level sets the global severity threshold.
func (c *Configurator) Level(level core.Level) *Configurator {
	c.level = level
	return c
}

// LevelOf pins a severity threshold to a package or type name. The
// override covers the name itself and everything nested under it.
func (c *Configurator) LevelOf(name string, level core.Level) *Configurator {
	c.overrides[name] = level
	return c
}

// Format sets the output pattern.
func (c *Configurator) Format(pattern string) *Configurator {
	c.pattern = pattern
	return c
}

// Locale sets the locale applied to positional message arguments.
func (c *Configurator) Locale(tag language.Tag) *Configurator {
	c.locale = tag
	return c
}

// MaxStackTraceDepth bounds the stack frames rendered per error level
// in a cause chain. Zero renders only the type and message.
func (c *Configurator) MaxStackTraceDepth(depth int) *Configurator {
	c.maxDepth = depth
	return c
}

// CoarseClock trades timestamp precision (about half a millisecond)
// for a cheaper clock read on every call.
func (c *Configurator) CoarseClock(enable bool) *Configurator {
	c.coarse = enable
	return c
}

// Writer appends an output sink.
func (c *Configurator) Writer(w writers.Writer) *Configurator {
	c.writerList = append(c.writerList, w)
	return c
}

// Writers replaces the writer list.
func (c *Configurator) Writers(ws ...writers.Writer) *Configurator {
	c.writerList = append([]writers.Writer(nil), ws...)
	return c
}

// Async routes dispatch through the background facility: one bounded
// queue and one consumer goroutine per writer.
func (c *Configurator) Async(enable bool) *Configurator {
	c.async = enable
	return c
}

// QueueCapacity sets the per-writer background queue size.
func (c *Configurator) QueueCapacity(n int) *Configurator {
	c.background.Capacity = n
	return c
}

// BlockTimeout bounds how long a Block-policy enqueue waits for queue
// space before falling back to an inline write.
func (c *Configurator) BlockTimeout(d time.Duration) *Configurator {
	c.background.BlockTimeout = d
	return c
}

// DrainTimeout bounds background queue draining on Shutdown.
func (c *Configurator) DrainTimeout(d time.Duration) *Configurator {
	c.background.DrainTimeout = d
	return c
}

// Overflow sets the queue overflow policy for one severity.
func (c *Configurator) Overflow(level core.Level, policy writers.OverflowPolicy) *Configurator {
	if c.background.Policies == nil {
		c.background.Policies = writers.DefaultLevelPolicies()
	}
	c.background.Policies[level] = policy
	return c
}

// Activate builds the configuration and installs it as the active one.
// Writers new to this configuration are initialized first; an
// initialization failure aborts the activation.
func (c *Configurator) Activate() error {
	return Configure(c.build())
}

// build compiles the pattern and freezes the snapshot. The background
// facility itself is attached during activation so that a running
// facility carries over between asynchronous configurations.
func (c *Configurator) build() *Configuration {
	tokens := format.Compile(c.pattern)
	renderer := format.NewRenderer(tokens, c.maxDepth)

	overrides := make([]levelOverride, 0, len(c.overrides))
	for name, level := range c.overrides {
		overrides = append(overrides, levelOverride{name: name, level: level})
	}
	sort.Slice(overrides, func(i, j int) bool {
		return overrides[i].name < overrides[j].name
	})

	writerList := append([]writers.Writer(nil), c.writerList...)

	var required core.EntryValues
	for _, w := range writerList {
		required = required.Union(w.RequiredValues())
	}
	if required.Has(core.ValueRendered) {
		required = required.Union(renderer.RequiredValues())
	}

	minLevel := core.OffLevel
	if len(writerList) > 0 {
		minLevel = c.level
		for _, o := range overrides {
			if o.level < minLevel {
				minLevel = o.level
			}
		}
	}

	need := needNone
	switch {
	case required.NeedsFullCaller():
		need = needFull
	case required.NeedsCaller() || len(overrides) > 0:
		need = needClass
	}

	return &Configuration{
		level:              c.level,
		overrides:          overrides,
		minLevel:           minLevel,
		required:           required,
		renderer:           renderer,
		writerList:         writerList,
		async:              c.async,
		backgroundCfg:      c.background,
		locale:             c.locale,
		printer:            message.NewPrinter(c.locale),
		maxStackTraceDepth: c.maxDepth,
		coarseClock:        c.coarse,
		need:               need,
	}
}
