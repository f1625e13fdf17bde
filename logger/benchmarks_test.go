package logger

import (
	"io"
	"testing"

	"github.com/tealog/tealog/errs"
	"github.com/tealog/tealog/writers"
)

func activateDiscard(b *testing.B, configure func(*Configurator)) {
	b.Helper()
	c := NewConfigurator().Writer(writers.NewConsoleWriterTo(io.Discard, io.Discard))
	if configure != nil {
		configure(c)
	}
	if err := c.Activate(); err != nil {
		b.Fatalf("Activate() error: %v", err)
	}
}

// BenchmarkFilteredDebug benchmarks Debug() when the level is Info, so
// the call is discarded before any rendering.
func BenchmarkFilteredDebug(b *testing.B) {
	activateDiscard(b, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Debug("debug message")
	}
}

// BenchmarkPlainMessage benchmarks Info() with a plain string and a
// message-only pattern using a discard writer.
func BenchmarkPlainMessage(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{level}: {message}")
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Info("test message")
	}
}

// BenchmarkPositionalArguments benchmarks Info() with two positional
// arguments substituted into the message.
func BenchmarkPositionalArguments(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{level}: {message}")
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Info("user {0} logged in from {1}", 42, "10.0.0.1")
	}
}

// BenchmarkDefaultPattern benchmarks Info() through the default
// pattern, which adds timestamp and goroutine rendering.
func BenchmarkDefaultPattern(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format(DefaultPattern)
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Info("test message")
	}
}

// BenchmarkCallerContext benchmarks Info() with a pattern that forces
// full caller resolution on every call.
func BenchmarkCallerContext(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{class}.{method} {message}")
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Info("test message")
	}
}

// BenchmarkClassOnlyContext benchmarks Info() under a level override,
// which needs the owning class but not the full frame.
func BenchmarkClassOnlyContext(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{level}: {message}").LevelOf("example.com/elsewhere", TraceLevel)
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Info("test message")
	}
}

// BenchmarkErrorRendering benchmarks Error() with a stack-carrying
// error and an eight frame trace budget.
func BenchmarkErrorRendering(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{message}").MaxStackTraceDepth(8)
	})
	err := errs.New("benchmark failure")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Error(err, "operation failed")
	}
}

// BenchmarkAsyncEnqueue benchmarks Info() with background dispatch, so
// the measured path ends at the queue.
func BenchmarkAsyncEnqueue(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{level}: {message}").Async(true)
	})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Info("test message")
	}
	b.StopTimer()
	if err := Shutdown(); err != nil {
		b.Fatalf("Shutdown() error: %v", err)
	}
}

// BenchmarkParallel benchmarks concurrent Info() calls sharing one
// configuration snapshot.
func BenchmarkParallel(b *testing.B) {
	activateDiscard(b, func(c *Configurator) {
		c.Format("{level}: {message}")
	})

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			Info("test message")
		}
	})
}
