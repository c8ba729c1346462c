package prettylogs

import (
	"sync"
	"time"
)

// closeTimeout bounds how long close waits for the stream to complete before
// forcibly destroying it. Fatal's final flush shares the same bound.
const closeTimeout = 5 * time.Second

// bufferedWriter states.
type writerState int

const (
	writerIdle    writerState = iota // empty queue, no timer
	writerPending                    // queued lines, flush timer armed
	writerClosed                     // terminal; add is ignored
)

// bufferedWriter batches formatted file lines and writes them to one
// rotatingStream in strict FIFO order. A flush drains the whole queue as a
// single batch; rotation happens underneath the batch write, so pending lines
// always land before the stream is swapped.
//
// With async disabled every add appends synchronously, trading throughput for
// strict ordering with no timer involved.
type bufferedWriter struct {
	mu     sync.Mutex
	stream *rotatingStream
	report func(error)

	direct   bool // async disabled: bypass the queue entirely
	size     int
	interval time.Duration
	timeout  time.Duration // bound on close; closeTimeout outside tests

	queue [][]byte
	timer *time.Timer // armed only in writerPending; Stop cancels
	state writerState
}

func newBufferedWriter(stream *rotatingStream, cfg *Config, report func(error)) *bufferedWriter {
	return &bufferedWriter{
		stream:   stream,
		report:   report,
		direct:   !cfg.async(),
		size:     cfg.BufferSize,
		interval: cfg.FlushInterval,
		timeout:  closeTimeout,
	}
}

// add queues one formatted line. Reaching the configured buffer size flushes
// synchronously; otherwise the first queued line arms the flush timer. Calls
// after close are ignored by documented policy.
func (w *bufferedWriter) add(line []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == writerClosed {
		return
	}

	if w.direct {
		if _, err := w.stream.Write(line); err != nil {
			w.report(err)
		}
		return
	}

	w.queue = append(w.queue, line)
	if len(w.queue) >= w.size {
		w.flushLocked()
		return
	}
	if w.state == writerIdle {
		w.state = writerPending
		w.timer = time.AfterFunc(w.interval, func() { w.flush() })
	}
}

// reconfigure applies new buffering settings. Lines queued under the old
// settings are drained first when switching to direct mode or shrinking the
// buffer below the queue, so later appends cannot overtake them.
func (w *bufferedWriter) reconfigure(cfg *Config) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.direct = !cfg.async()
	w.size = cfg.BufferSize
	w.interval = cfg.FlushInterval

	if w.direct || len(w.queue) >= w.size {
		w.flushLocked()
	}
}

// flush writes all queued lines as one batch and returns the writer to idle.
// It is a no-op when the queue is already empty.
func (w *bufferedWriter) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == writerClosed {
		return nil
	}
	return w.flushLocked()
}

// flushLocked drains the queue under the held lock, cancelling any armed
// timer. Write errors are reported sideways; the queue is cleared either way
// so a failing file cannot grow the buffer without bound.
func (w *bufferedWriter) flushLocked() error {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.state != writerClosed {
		w.state = writerIdle
	}
	if len(w.queue) == 0 {
		return nil
	}

	var batch []byte
	for _, line := range w.queue {
		batch = append(batch, line...)
	}
	w.queue = nil

	if _, err := w.stream.Write(batch); err != nil {
		w.report(err)
		return err
	}
	return nil
}

// close flushes pending lines and ends the stream. It returns once the
// stream completes or after closeTimeout, at which point the stream is
// forcibly destroyed. The writer is unusable afterwards.
func (w *bufferedWriter) close() error {
	w.mu.Lock()
	if w.state == writerClosed {
		w.mu.Unlock()
		return nil
	}
	flushErr := w.flushLocked()
	w.state = writerClosed
	w.mu.Unlock()

	closeDone := make(chan error, 1)
	go func() {
		closeDone <- w.stream.Close()
	}()

	select {
	case err := <-closeDone:
		if err != nil {
			return err
		}
		return flushErr
	case <-time.After(w.timeout):
		w.stream.destroy()
		return &FileError{Op: "close", Path: w.stream.path, Err: errCloseTimeout}
	}
}
