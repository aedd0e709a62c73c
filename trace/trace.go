/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package trace is the VM-wide logging facade. Every other package logs
// through here rather than calling fmt or the standard log package
// directly, so that verbosity is controlled in one place and so the
// output format can be swapped without touching call sites.
package trace

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logging levels, ordered from least to most verbose. Named to match the
// granularity the CLI's -trace flag exposes (severe down through finest).
const (
	SEVERE     = iota // unrecoverable VM errors
	WARNING           // recoverable anomalies worth a human's attention
	INFO              // class loading / thread lifecycle milestones
	TRACE_INST        // per-bytecode-instruction execution trace
	FINE
	FINER
	FINEST
)

var (
	mu      sync.Mutex
	logger  = newLogger()
	current = WARNING
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: false})
	l.SetLevel(logrus.TraceLevel)
	return l
}

// Init sets the initial trace verbosity, typically from a CLI flag.
func Init(level int) {
	mu.Lock()
	defer mu.Unlock()
	current = level
}

// SetLevel changes the verbosity at which Trace-level messages are emitted.
func SetLevel(level int) {
	mu.Lock()
	defer mu.Unlock()
	current = level
}

func enabled(level int) bool {
	mu.Lock()
	defer mu.Unlock()
	return level <= current
}

// Error logs an unconditional error-level message.
func Error(msg string) {
	logger.WithField("jvm", "error").Error(msg)
}

// Warning logs a warning-level message, gated on the current verbosity.
func Warning(msg string) {
	if enabled(WARNING) {
		logger.WithField("jvm", "warning").Warn(msg)
	}
}

// Info logs an info-level milestone message.
func Info(msg string) {
	if enabled(INFO) {
		logger.WithField("jvm", "info").Info(msg)
	}
}

// Trace logs a message when the verbosity is TRACE_INST or higher (it is
// silent at the default WARNING level); used throughout the classloader
// and interpreter for step-by-step detail.
func Trace(msg string) {
	if enabled(TRACE_INST) {
		logger.WithField("jvm", "trace").Debug(msg)
	}
}

// Log emits msg if level is at or below the currently configured verbosity.
// Kept as a free function (rather than forcing every caller to pick
// Trace/Info/Warning) because several ported callers log at a
// level computed at runtime.
func Log(msg string, level int) error {
	switch {
	case level <= SEVERE:
		Error(msg)
	case level <= WARNING:
		Warning(msg)
	case level <= INFO:
		Info(msg)
	default:
		Trace(msg)
	}
	return nil
}
