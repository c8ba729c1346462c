package prettylogs

import "sync"

// The process-wide default logger is constructed lazily, exactly once, on
// first use of Default or any package-level logging function. It uses
// DefaultConfig and cannot be re-initialized; construct and inject explicit
// Logger instances when more control is needed.
var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide default logger, constructing it on first
// call.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

// Trace logs a trace message on the default logger.
func Trace(args ...any) { Default().Trace(args...) }

// Debug logs a debug message on the default logger.
func Debug(args ...any) { Default().Debug(args...) }

// Info logs an info message on the default logger.
func Info(args ...any) { Default().Info(args...) }

// Success logs a success message on the default logger.
func Success(args ...any) { Default().Success(args...) }

// Warn logs a warning message on the default logger.
func Warn(args ...any) { Default().Warn(args...) }

// Error logs an error message on the default logger.
func Error(args ...any) { Default().Error(args...) }

// Fatal logs a fatal message on the default logger, flushes, and terminates
// the process.
func Fatal(args ...any) { Default().Fatal(args...) }
