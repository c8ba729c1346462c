package prettylogs

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger lifecycle states. Only an active logger accepts log calls; calls
// arriving while closing or closed are silently dropped so shutdown sequences
// stay non-fatal.
const (
	loggerActive int32 = iota
	loggerClosing
	loggerClosed
)

// Logger is a per-namespace logging façade. It owns one config snapshot and,
// when file logging is enabled, one writer/stream pair. Child loggers receive
// a value copy of the config at creation time; reconfiguring the parent
// afterwards does not affect them.
type Logger struct {
	mu        sync.Mutex
	cfg       Config
	namespace string
	state     atomic.Int32

	console io.Writer
	exit    func(int)

	// The error handler lives under its own lock: the flush timer's error
	// path reports from its goroutine while SetConfig rewrites cfg.
	handlerMu    sync.Mutex
	errorHandler func(error)

	stream *rotatingStream
	writer *bufferedWriter

	pid      int
	hostname string
}

// New creates a logger. With no argument the default configuration is used;
// otherwise the given config is merged over the defaults and validated, with
// invalid options falling back to their defaults. File logging starts if
// LogFile is set; an unopenable file degrades to console-only and is reported
// on the side error channel.
func New(cfg ...*Config) *Logger {
	merged := *DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		base := merged
		merged = mergeConfig(base, cfg[0])
	}

	hostname, _ := os.Hostname()
	l := &Logger{
		console:  os.Stdout,
		exit:     os.Exit,
		pid:      os.Getpid(),
		hostname: hostname,
	}
	l.cfg = merged
	l.errorHandler = merged.ErrorHandler
	defaults := *DefaultConfig()
	l.cfg.sanitize(&defaults, l.report)

	if l.cfg.LogFile != "" {
		l.initWriter()
	}
	return l
}

// initWriter opens the stream and writer for the configured log file. Caller
// holds the lock or is the constructor. Failure leaves the logger
// console-only.
func (l *Logger) initWriter() {
	stream, err := newRotatingStream(l.cfg.LogFile, l.cfg.MaxFileSize, l.cfg.MaxFiles, l.report)
	if err != nil {
		l.report(err)
		return
	}
	l.stream = stream
	l.writer = newBufferedWriter(stream, &l.cfg, l.report)
}

// report sends a diagnostic to the side error channel.
func (l *Logger) report(err error) {
	l.handlerMu.Lock()
	handler := l.errorHandler
	l.handlerMu.Unlock()

	if handler != nil {
		handler(err)
		return
	}
	stderrErrorHandler(err)
}

// Log emits one entry at the given level. The console line is printed
// synchronously in call order; the file line goes through the buffered writer
// (or appends directly when async is disabled). Nothing here ever raises into
// the caller.
func (l *Logger) Log(level Level, args ...any) {
	if l.state.Load() != loggerActive {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cfg.shouldLog(level) {
		return
	}

	msg, metadata := splitArgs(args)
	e := &Entry{
		Time:        time.Now(),
		Level:       level,
		Namespace:   l.namespace,
		Message:     msg,
		Metadata:    metadata,
		Environment: l.cfg.Environment,
		PID:         l.pid,
		Hostname:    l.hostname,
	}

	fmt.Fprintln(l.console, formatConsole(e, &l.cfg, l.report))

	if l.writer != nil {
		l.writer.add(formatFile(e, &l.cfg, l.report))
	}
}

// Trace logs a message at trace level. Emitted only in verbose or debug mode.
func (l *Logger) Trace(args ...any) { l.Log(LevelTrace, args...) }

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) { l.Log(LevelDebug, args...) }

// Info logs a message at info level.
func (l *Logger) Info(args ...any) { l.Log(LevelInfo, args...) }

// Success logs a message at success level. Success shares Info's rank.
func (l *Logger) Success(args ...any) { l.Log(LevelSuccess, args...) }

// Warn logs a message at warning level.
func (l *Logger) Warn(args ...any) { l.Log(LevelWarn, args...) }

// Error logs a message at error level.
func (l *Logger) Error(args ...any) { l.Log(LevelError, args...) }

// Fatal logs a message at fatal level, flushes pending file lines with a
// bounded wait, then terminates the process through the exit hook. The
// termination is an intended side effect, not an error path.
func (l *Logger) Fatal(args ...any) {
	l.Log(LevelFatal, args...)
	l.flushBounded()
	l.exit(1)
}

// flushBounded flushes the writer but never waits longer than closeTimeout,
// so a stalled stream cannot hang a shutdown.
func (l *Logger) flushBounded() {
	l.mu.Lock()
	writer := l.writer
	l.mu.Unlock()
	if writer == nil {
		return
	}

	flushDone := make(chan struct{})
	go func() {
		writer.flush()
		close(flushDone)
	}()
	select {
	case <-flushDone:
	case <-time.After(closeTimeout):
	}
}

// Child creates a logger whose namespace is parent:name (or the bare name if
// the parent has none) with a snapshot of the parent's current config. A
// child with file logging enabled opens its own stream; write interleaving
// across loggers sharing a path is unspecified.
func (l *Logger) Child(namespace string) *Logger {
	l.mu.Lock()
	cfg := l.cfg
	cfg.Levels = append([]Level(nil), l.cfg.Levels...)
	ns := namespace
	if l.namespace != "" {
		ns = l.namespace + ":" + namespace
	}
	console, exit := l.console, l.exit
	l.mu.Unlock()

	child := &Logger{
		cfg:          cfg,
		namespace:    ns,
		console:      console,
		exit:         exit,
		errorHandler: cfg.ErrorHandler,
		pid:          l.pid,
		hostname:     l.hostname,
	}
	if cfg.LogFile != "" {
		child.initWriter()
	}
	return child
}

// SetConfig merges the given partial config over the current one and
// validates it; invalid options keep their prior values and are reported on
// the side error channel. Changing LogFile closes the current writer/stream
// and reinitializes. Already-created children are unaffected.
func (l *Logger) SetConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prior := l.cfg
	merged := mergeConfig(prior, cfg)

	l.handlerMu.Lock()
	l.errorHandler = merged.ErrorHandler
	l.handlerMu.Unlock()

	merged.sanitize(&prior, l.report)
	l.cfg = merged

	if merged.LogFile != prior.LogFile {
		if l.writer != nil {
			if err := l.writer.close(); err != nil {
				l.report(err)
			}
			l.writer = nil
			l.stream = nil
		}
		if merged.LogFile != "" {
			l.initWriter()
		}
		return
	}

	if l.writer != nil {
		l.writer.reconfigure(&merged)
		l.stream.reconfigure(merged.MaxFileSize, merged.MaxFiles)
	}
}

// SetConsole redirects console output. The default is os.Stdout.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// SetExitFunc replaces the process-termination hook used by Fatal. The
// default is os.Exit.
func (l *Logger) SetExitFunc(fn func(int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exit = fn
}

// Namespace returns the colon-joined lineage identifier of this logger.
func (l *Logger) Namespace() string {
	return l.namespace
}

// Flush writes all buffered file lines immediately.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer == nil {
		return nil
	}
	return l.writer.flush()
}

// Close flushes pending lines and releases the stream, within a bounded
// timeout. Log calls during and after Close are silently dropped. Close is
// idempotent.
func (l *Logger) Close() error {
	if !l.state.CompareAndSwap(loggerActive, loggerClosing) {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.writer != nil {
		err = l.writer.close()
		l.writer = nil
		l.stream = nil
	}
	l.state.Store(loggerClosed)
	return err
}
