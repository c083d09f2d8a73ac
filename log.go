package marker

import (
	"log/slog"
	"sync"
)

// logger receives all diagnostics of this package. Replace it with SetLogger.
var logger = slog.Default()

// SetLogger replaces the logger used for warnings and debug output. Passing
// nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

var (
	warningsMu sync.Mutex
	warnings   = map[string]struct{}{}
)

// warnOnce logs msg at warn level the first time it is called with that exact
// message. Later calls with the same message are dropped.
func warnOnce(msg string, args ...any) {
	warningsMu.Lock()
	_, seen := warnings[msg]
	if !seen {
		warnings[msg] = struct{}{}
	}
	warningsMu.Unlock()

	if !seen {
		logger.Warn(msg, args...)
	}
}

// resetWarnings forgets all previously emitted warnings.
func resetWarnings() {
	warningsMu.Lock()
	warnings = map[string]struct{}{}
	warningsMu.Unlock()
}
