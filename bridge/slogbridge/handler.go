// Package slogbridge adapts the logging facade to log/slog. A Handler
// forwards slog records into the active configuration, so code written
// against slog shares writers, format patterns and severity overrides
// with the rest of the process.
//
//	slog.SetDefault(slog.New(slogbridge.New()))
//
// The facade is message-oriented: attributes and groups are flattened
// into " key=value" suffixes on the record message, with group names
// joined by dots.
package slogbridge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/logger"
)

// Handler is a slog.Handler that forwards records into the logging
// facade. The zero value is ready to use; New is the conventional
// constructor.
type Handler struct {
	group string
	// prefix holds the attrs accumulated by WithAttrs, already rendered,
	// so Handle only formats the record's own attrs.
	prefix string
}

// New returns a Handler forwarding into the active configuration.
func New() *Handler {
	return &Handler{}
}

// Enabled defers to the active configuration's severity gate. Per-name
// overrides cannot be consulted here because the caller is not known
// until Handle.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return logger.Enabled(toCoreLevel(level))
}

// Handle forwards the record. The record's PC resolves to the original
// call site, so caller placeholders keep pointing at the slog caller.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	caller := core.ResolvePC(record.PC)
	logger.OutputWithCaller(caller, toCoreLevel(record.Level), nil, h.render(record))
	return nil
}

// WithAttrs returns a handler whose records carry the given attrs as a
// pre-rendered message suffix.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	return &Handler{group: h.group, prefix: b.String()}
}

// WithGroup returns a handler that qualifies subsequent attr keys with
// the group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{group: qualify(h.group, name), prefix: h.prefix}
}

func (h *Handler) render(record slog.Record) string {
	if h.prefix == "" && record.NumAttrs() == 0 {
		return record.Message
	}
	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(h.prefix)
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})
	return b.String()
}

// appendAttr writes one " key=value" pair. Groups flatten recursively
// with dotted keys; empty attrs are dropped per the slog contract.
func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(b, qualify(group, a.Key), ga)
		}
		return
	}
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(qualify(group, a.Key))
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

func qualify(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

// toCoreLevel maps slog levels onto the facade's scale. Levels below
// debug land on TRACE, which slog itself has no name for.
func toCoreLevel(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}
