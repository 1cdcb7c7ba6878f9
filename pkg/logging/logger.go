package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes component-tagged diagnostics for a single run.
// Entries look like:
//
//	[2006-01-02 15:04:05.000] [<run-id>] [component] [LEVEL] message
//
// Debugf is dropped unless the logger was created with debug enabled; all
// other levels are written unconditionally.
type Logger struct {
	runID     string
	component string
	debug     bool
	out       io.Writer
	logger    *log.Logger
	mu        *sync.Mutex
}

var (
	// Global run ID for the current execution
	runID     string
	runIDOnce sync.Once
)

// getRunID returns or creates the run ID for this execution
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// NewLogger creates a logger for component writing to out.
// A nil out writes to stderr.
func NewLogger(component string, out io.Writer, debug bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		runID:     getRunID(),
		component: component,
		debug:     debug,
		out:       out,
		logger:    log.New(out, "", 0), // timestamps are formatted per entry
		mu:        &sync.Mutex{},
	}
}

// Named returns a logger for another component sharing the same output.
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		runID:     l.runID,
		component: component,
		debug:     l.debug,
		out:       l.out,
		logger:    l.logger,
		mu:        l.mu,
	}
}

// formatLogEntry creates a log entry with timestamp, run, component, and level
func (l *Logger) formatLogEntry(level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s", timestamp, l.runID[:8], l.component, level, message)
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, v...)
	l.logger.Println(l.formatLogEntry(level, message))
}

// Debugf logs a debug-level message when debug logging is enabled
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.write("DEBUG", format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write("INFO", format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write("WARN", format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write("ERROR", format, v...)
}

// DebugEnabled reports whether Debugf writes anything.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// Writer returns the raw output when debug logging is enabled and
// io.Discard otherwise. It is meant for chatty subprocess output.
func (l *Logger) Writer() io.Writer {
	if l.debug {
		return l.out
	}
	return io.Discard
}

// RunID returns the run ID attached to every entry
func (l *Logger) RunID() string {
	return l.runID
}

// GetRunID returns the current global run ID
func GetRunID() string {
	return getRunID()
}
