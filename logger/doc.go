// Package logger is the public API of tealog. Most applications only
// need to import this package.
//
// Logging goes through package-level functions against one process-wide
// configuration:
//
//	logger.Info("listening on port {0}", 8080)
//	logger.Error(err)
//	logger.Error(err, "reconnect {0} failed", attempt)
//
// Each severity function accepts a plain value, a pattern with
// {0}-style positional placeholders, or an error in first position; an
// error followed by a string logs both.
//
// The active configuration is an immutable snapshot swapped by a
// single atomic pointer store, so log calls never lock. Configuration
// happens through the fluent Configurator:
//
//	err := logger.NewConfigurator().
//	    Level(logger.DebugLevel).
//	    LevelOf("example.com/app/storage", logger.TraceLevel).
//	    Format("{date} [{thread}] {class}.{method}() {level}: {message}").
//	    Writer(writers.NewFileWriter("app.log", true)).
//	    Async(true).
//	    Activate()
//
// The pipeline computes only the context the active writers and format
// tokens require: a pattern without {method} or {line} never walks the
// stack, and a call filtered out by level costs one atomic load and
// one comparison. Per-name level overrides apply to the longest
// matching name prefix, so an override for "example.com/app" covers
// every package under it.
//
// Shutdown drains asynchronous queues and closes all writers. The
// package activates a default configuration (console, INFO) at init,
// so simple programs can log without any setup.
package logger
