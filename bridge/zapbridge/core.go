// Package zapbridge adapts the logging facade to go.uber.org/zap. A
// Core forwards zap entries into the active configuration:
//
//	log := zap.New(zapbridge.NewCore(), zap.AddCaller())
//
// Fields are flattened through zapcore's map encoder into " key=value"
// message suffixes, sorted by key; the facade is message-oriented and
// has no structured field model of its own.
package zapbridge

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/logger"
)

// Core is a zapcore.Core that forwards entries into the logging facade.
type Core struct {
	// prefix holds the fields accumulated by With, already rendered.
	prefix string
}

// NewCore returns a Core forwarding into the active configuration.
func NewCore() *Core {
	return &Core{}
}

// Enabled defers to the active configuration's severity gate.
func (c *Core) Enabled(level zapcore.Level) bool {
	return logger.Enabled(toCoreLevel(level))
}

// With returns a Core whose entries carry the given fields as a
// pre-rendered message suffix.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	return &Core{prefix: c.prefix + renderFields(fields)}
}

// Check adds this core to the checked entry when the entry's level is
// enabled.
func (c *Core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write forwards the entry. Zap resolves the caller when the logger is
// built with zap.AddCaller(); without it the entry carries no context
// and caller placeholders render as unknown.
func (c *Core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	message := entry.Message + c.prefix + renderFields(fields)
	logger.OutputWithCaller(callerInfo(entry.Caller), toCoreLevel(entry.Level), nil, message)
	return nil
}

// Sync is a no-op; the facade owns writer flushing through Shutdown.
func (c *Core) Sync() error {
	return nil
}

// renderFields flattens fields through zapcore's map encoder and
// renders them sorted by key, so output is deterministic.
func renderFields(fields []zapcore.Field) string {
	if len(fields) == 0 {
		return ""
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, enc.Fields[key])
	}
	return b.String()
}

func callerInfo(caller zapcore.EntryCaller) core.CallerInfo {
	if !caller.Defined {
		return core.UnknownCaller()
	}
	if info := core.ResolvePC(caller.PC); info.Defined {
		return info
	}
	info := core.UnknownCaller()
	if caller.File != "" {
		info.File = filepath.Base(caller.File)
	}
	info.Line = caller.Line
	info.Defined = true
	return info
}

// toCoreLevel maps zap levels onto the facade's scale. DPanic and above
// all land on ERROR.
func toCoreLevel(level zapcore.Level) core.Level {
	switch {
	case level >= zapcore.ErrorLevel:
		return core.ErrorLevel
	case level >= zapcore.WarnLevel:
		return core.WarningLevel
	case level >= zapcore.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
