package log

import "sync"

var (
	globalMu sync.Mutex
	global   *Logger
)

// SetDefaultLogger installs the process-wide logger. The CLI calls this
// once after flag parsing; everything else reaches it through
// DefaultLogger.
func SetDefaultLogger(l *Logger) {
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// DefaultLogger returns the installed logger, creating one with the
// default configuration on first use.
func DefaultLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		global = New(DefaultConfig())
	}
	return global
}
