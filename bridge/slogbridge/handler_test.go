package slogbridge

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/logger"
	"github.com/tealog/tealog/writers"
)

func activateBuffer(t *testing.T, configure func(*logger.Configurator)) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	c := logger.NewConfigurator().
		Writer(writers.NewConsoleWriterTo(&buf, &buf)).
		Format("{message}").
		Level(core.DebugLevel)
	if configure != nil {
		configure(c)
	}
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	return &buf
}

func TestHandler_Enabled(t *testing.T) {
	activateBuffer(t, func(c *logger.Configurator) {
		c.Level(core.InfoLevel)
	})
	h := New()

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should not be enabled when level is Info")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info should be enabled when level is Info")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Warn should be enabled when level is Info")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error should be enabled when level is Info")
	}
}

func TestHandler_Handle(t *testing.T) {
	buf := activateBuffer(t, nil)
	log := slog.New(New())

	log.Info("test message", "key", "value", "count", 42)

	want := "test message key=value count=42" + core.NewLine
	if buf.String() != want {
		t.Errorf("Rendered = %q, want %q", buf.String(), want)
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	buf := activateBuffer(t, nil)
	log := slog.New(New()).With("request_id", "req-123")

	log.Info("test message")

	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Errorf("Expected 'request_id=req-123' in output, got: %s", buf.String())
	}
}

func TestHandler_WithGroup(t *testing.T) {
	buf := activateBuffer(t, nil)
	log := slog.New(New()).WithGroup("auth")

	log.Info("test message", "user_id", 123)

	if !strings.Contains(buf.String(), "auth.user_id=123") {
		t.Errorf("Expected 'auth.user_id=123' in output, got: %s", buf.String())
	}
}

func TestHandler_GroupAttrFlattening(t *testing.T) {
	buf := activateBuffer(t, nil)
	log := slog.New(New())

	log.Info("request done", slog.Group("req",
		slog.String("method", "GET"),
		slog.Int("status", 200),
	))

	want := "request done req.method=GET req.status=200" + core.NewLine
	if buf.String() != want {
		t.Errorf("Rendered = %q, want %q", buf.String(), want)
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	buf := activateBuffer(t, func(c *logger.Configurator) {
		c.Level(core.InfoLevel)
	})
	log := slog.New(New())

	log.Debug("should not appear")
	if buf.Len() > 0 {
		t.Error("Debug message should not have been logged")
	}

	log.Info("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("Expected 'should appear' in output, got: %s", buf.String())
	}
}

func TestHandler_CallerContext(t *testing.T) {
	buf := activateBuffer(t, func(c *logger.Configurator) {
		c.Format("{class}.{method}: {message}")
	})
	log := slog.New(New())

	log.Info("here")

	out := buf.String()
	if !strings.Contains(out, "slogbridge.TestHandler_CallerContext: here") {
		t.Errorf("Expected the slog call site in output, got: %s", out)
	}
}

func TestHandler_OverrideByCallerPackage(t *testing.T) {
	buf := activateBuffer(t, func(c *logger.Configurator) {
		c.Level(core.ErrorLevel).
			LevelOf("github.com/tealog/tealog/bridge/slogbridge", core.DebugLevel).
			Format("{level}: {message}")
	})
	log := slog.New(New())

	log.Debug("opened by the override")

	if !strings.Contains(buf.String(), "DEBUG: opened by the override") {
		t.Errorf("Override did not open DEBUG for this package, got: %q", buf.String())
	}
}

func TestToCoreLevel(t *testing.T) {
	tests := []struct {
		slogLevel slog.Level
		coreLevel core.Level
	}{
		{slog.LevelDebug, core.DebugLevel},
		{slog.LevelInfo, core.InfoLevel},
		{slog.LevelWarn, core.WarningLevel},
		{slog.LevelError, core.ErrorLevel},
		{slog.LevelError + 4, core.ErrorLevel},
		{slog.LevelDebug - 4, core.TraceLevel},
	}

	for _, tt := range tests {
		if got := toCoreLevel(tt.slogLevel); got != tt.coreLevel {
			t.Errorf("toCoreLevel(%v) = %v, want %v", tt.slogLevel, got, tt.coreLevel)
		}
	}
}
