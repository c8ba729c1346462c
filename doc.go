// Package prettylogs provides a leveled console logger with optional buffered,
// rotating file output shared across namespaced child loggers.
//
// Features:
//   - Seven log levels (TRACE through FATAL) with mode and allow-set filtering
//   - Colorized console output alongside text, JSON, or structured file encodings
//   - Buffered asynchronous file writes with size- and timer-driven flushing
//   - Automatic size-based file rotation with archive retention limits
//   - Namespaced child loggers carrying config snapshots
//   - Configuration via code, key=value strings, or JSON/YAML/TOML files
//   - Graceful close with bounded timeouts
//
// File-logging failures never propagate into logging calls; they are reported
// as single-line diagnostics on a side error channel while console output
// continues. Two Logger instances writing to the same file path each own an
// independent stream; the interleaving of their output across instances is
// unspecified.
package prettylogs
