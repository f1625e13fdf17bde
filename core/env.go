package core

import (
	"os"
	"runtime"
	"strconv"
)

var (
	pid       = os.Getpid()
	pidString = strconv.Itoa(pid)
)

// ProcessID returns the id of the running process, cached at startup.
func ProcessID() int {
	return pid
}

// ProcessIDString returns the decimal form of ProcessID.
func ProcessIDString() string {
	return pidString
}

// NewLine is the platform line separator.
var NewLine = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()
