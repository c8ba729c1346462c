package prettylogs

import (
	"errors"
	"fmt"
	"os"
)

// errCloseTimeout marks a stream that did not complete within the bounded
// close timeout and was forcibly destroyed.
var errCloseTimeout = errors.New("timed out waiting for stream completion")

// The logger never raises an error out of a logging call. Invalid
// configuration is corrected to the prior value, unserializable metadata is
// replaced with a sentinel, and file I/O failures degrade the file path to
// best-effort. I/O failures are still reported, as single-line diagnostics on
// a side channel distinct from the logger itself so a failing log file cannot
// cause a recursive failure loop.

// ConfigError describes a rejected configuration value. It is reported on the
// side error channel; the prior value stays in effect.
type ConfigError struct {
	Option string
	Value  any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config value for %s: %v (keeping previous)", e.Option, e.Value)
}

// SerializationError describes metadata that could not be serialized, such as
// a value with a circular reference. The formatter substitutes a placeholder
// and logging continues.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize metadata: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// FileError describes a failed file operation: directory creation, write,
// rename, or delete. Console output continues unaffected.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// stderrErrorHandler is the default side error channel.
func stderrErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "prettylogs: %v\n", err)
}
