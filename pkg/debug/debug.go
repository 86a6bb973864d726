// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Samples controls whether per-sample gaze logs are shown.
// At device frame rate this is extremely verbose; use --debug-samples to enable.
var Samples bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// Logln prints a message with newline only if debug mode is enabled
func Logln(msg string) {
	if Enabled {
		fmt.Println(msg)
	}
}

// SampleLog prints a message only if per-sample debug mode is enabled
func SampleLog(format string, args ...interface{}) {
	if Samples {
		fmt.Printf(format, args...)
	}
}
