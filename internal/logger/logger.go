// Package logger provides the shared logger for the display-dimmer daemon.
package logger

import (
	"sync"
)

// Log levels accepted by Get.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	global *Logger
	once   sync.Once
)

// Get returns the process-wide logger configured at the given level. The
// first call initializes it; later calls ignore the level and return the
// same instance.
func Get(level string) *Logger {
	once.Do(func() {
		global = newZapLogger(level)
	})
	return global
}
