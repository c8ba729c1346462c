// Package quick provides shorthand helpers for the process-wide default
// logger, configured with "key=value" strings instead of a Config struct.
//
//	quick.Config("min_level=debug", "log_file=./logs/app.log")
//	quick.Info("started")
package quick

import (
	"fmt"

	"github.com/Millosaurs/prettylogs"
)

// Trace logs a trace message on the default logger.
func Trace(args ...any) {
	prettylogs.Trace(args...)
}

// Debug logs a debug message on the default logger.
func Debug(args ...any) {
	prettylogs.Debug(args...)
}

// Info logs an info message on the default logger.
func Info(args ...any) {
	prettylogs.Info(args...)
}

// Success logs a success message on the default logger.
func Success(args ...any) {
	prettylogs.Success(args...)
}

// Warn logs a warning message on the default logger.
func Warn(args ...any) {
	prettylogs.Warn(args...)
}

// Error logs an error message on the default logger.
func Error(args ...any) {
	prettylogs.Error(args...)
}

// Fatal logs a fatal message on the default logger, flushes, and terminates
// the process.
func Fatal(args ...any) {
	prettylogs.Fatal(args...)
}

// Config reconfigures the default logger with string statements,
// e.g. quick.Config("min_level=debug").
func Config(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("no config provided")
	}

	cfg, err := config(args...)
	if err != nil {
		return err
	}

	prettylogs.Default().SetConfig(cfg)
	return nil
}

// Flush writes all buffered file lines of the default logger.
func Flush() error {
	return prettylogs.Default().Flush()
}

// Close flushes and closes the default logger.
func Close() error {
	return prettylogs.Default().Close()
}
