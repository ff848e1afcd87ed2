// Package logger provides verbose logging for Sercha Unified.
//
// When verbose mode is enabled via the --verbose flag, debug, info and
// warning messages are printed to stderr so users can follow a query
// through intent routing, provider fan-out and ranking. Errors are
// always printed.
//
// Components log through a scoped Logger so every line names its origin:
//
//	log := logger.For("jira")
//	log.Debug("JQL: %s", jql) // [DEBUG] [jira] JQL: ...
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// level labels a log line.
type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes one line. Errors bypass the verbose gate.
func logf(lvl level, component, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && lvl != levelError {
		return
	}
	prefix := "[" + string(lvl) + "] "
	if component != "" {
		prefix += "[" + component + "] "
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) { logf(levelDebug, "", format, args...) }

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) { logf(levelInfo, "", format, args...) }

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) { logf(levelWarn, "", format, args...) }

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) { logf(levelError, "", format, args...) }

// Logger is a component-scoped view of the package logger.
// The zero value logs without a component tag.
type Logger struct {
	component string
}

// For returns a Logger that tags every line with component.
func For(component string) Logger {
	return Logger{component: component}
}

// Component returns the component tag.
func (l Logger) Component() string { return l.component }

// Debug prints a tagged message if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) { logf(levelDebug, l.component, format, args...) }

// Info prints a tagged informational message if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) { logf(levelInfo, l.component, format, args...) }

// Warn prints a tagged warning if verbose mode is enabled.
func (l Logger) Warn(format string, args ...any) { logf(levelWarn, l.component, format, args...) }

// Error prints a tagged error regardless of verbose mode.
func (l Logger) Error(format string, args ...any) { logf(levelError, l.component, format, args...) }
