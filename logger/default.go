package logger

import (
	"github.com/tealog/tealog/internal/diag"
	"github.com/tealog/tealog/writers"
)

func init() {
	// Default configuration: console output at INFO with the default
	// pattern, synchronous. Programs that never configure anything
	// still get sensible output.
	err := NewConfigurator().
		Writer(writers.NewConsoleWriter()).
		Activate()
	if err != nil {
		diag.Error(err, "failed to activate the default configuration")
	}
}
