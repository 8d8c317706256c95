// Package logging provides structured logging for fixsweep built on
// charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Shared default logger, created lazily.
var (
	defaultMu     sync.Mutex
	defaultLogger *log.Logger
)

// New creates a stderr logger at the given level. Level names are parsed
// case-insensitively; unrecognized names fall back to info.
func New(level string) *log.Logger {
	return newLogger(os.Stderr, parseLevel(level))
}

// NewInteractive creates a logger for user-facing command output.
// It writes to stdout so messages compose with shell redirection.
func NewInteractive() *log.Logger {
	return newLogger(os.Stdout, log.InfoLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(level)

	return logger
}

func parseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}

	return log.InfoLevel
}

// Default returns the shared logger, creating it on first use.
func Default() *log.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger == nil {
		defaultLogger = New("info")
	}

	return defaultLogger
}

// SetDefault replaces the shared logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLogger = logger
}

// SetLevel adjusts the level of the shared logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}
