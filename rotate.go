package prettylogs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// rotatingStream owns one open log file and enforces size-based rotation with
// archive retention. It is exclusively owned by a single Logger; two loggers
// never share one stream.
type rotatingStream struct {
	mu       sync.Mutex
	path     string
	dir      string
	base     string // file name without extension
	ext      string // extension without the leading dot
	maxSize  int64
	maxFiles int
	report   func(error)

	file *os.File
	size int64

	closeHook func() // runs at the start of Close; tests stall it here
}

// newRotatingStream opens (creating directories as needed) the live log file
// at path. Rotation triggers once a write would push the file past maxSize;
// cleanup keeps the maxFiles most recent archives.
func newRotatingStream(path string, maxSize int64, maxFiles int, report func(error)) (*rotatingStream, error) {
	name := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	s := &rotatingStream{
		path:     path,
		dir:      filepath.Dir(path),
		base:     strings.TrimSuffix(name, filepath.Ext(name)),
		ext:      ext,
		maxSize:  maxSize,
		maxFiles: maxFiles,
		report:   report,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// open creates the directory and live file and records the current size.
func (s *rotatingStream) open() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &FileError{Op: "create directory", Path: s.dir, Err: err}
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &FileError{Op: "open", Path: s.path, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return &FileError{Op: "stat", Path: s.path, Err: err}
	}

	s.file = file
	s.size = info.Size()
	return nil
}

// Write appends p to the live file, rotating first when the write would reach
// maxSize. A failed rotation degrades to appending on the current file so no
// entries are lost.
func (s *rotatingStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return 0, &FileError{Op: "write", Path: s.path, Err: os.ErrClosed}
	}

	if s.maxSize > 0 && s.size > 0 && s.size+int64(len(p)) >= s.maxSize {
		if err := s.rotate(); err != nil {
			s.report(err)
		}
		if s.file == nil {
			return 0, &FileError{Op: "write", Path: s.path, Err: os.ErrClosed}
		}
	}

	n, err := s.file.Write(p)
	s.size += int64(n)
	if err != nil {
		return n, &FileError{Op: "write", Path: s.path, Err: err}
	}
	return n, nil
}

// rotate retires the live file to a timestamped archive, reopens a fresh file
// at the original path, and prunes old archives.
func (s *rotatingStream) rotate() error {
	if err := s.file.Sync(); err != nil {
		return &FileError{Op: "sync", Path: s.path, Err: err}
	}
	if err := s.file.Close(); err != nil {
		return &FileError{Op: "close", Path: s.path, Err: err}
	}
	s.file = nil

	now := time.Now()
	archive := filepath.Join(s.dir, archiveName(s.base, s.ext, now, false))
	if _, err := os.Stat(archive); err == nil {
		// Rotations within the same millisecond fall back to nanosecond
		// precision so an existing archive is never overwritten.
		archive = filepath.Join(s.dir, archiveName(s.base, s.ext, now, true))
	}
	if err := os.Rename(s.path, archive); err != nil {
		// Reopen the original so subsequent writes still land somewhere.
		if openErr := s.open(); openErr != nil {
			return openErr
		}
		return &FileError{Op: "rename", Path: s.path, Err: err}
	}

	if err := s.open(); err != nil {
		return err
	}

	s.cleanup()
	return nil
}

// archiveName builds "<base>.<timestamp>.<ext>" with ':' and '.' in the ISO
// timestamp replaced so the name stays filesystem-safe.
func archiveName(base, ext string, t time.Time, precise bool) string {
	layout := "2006-01-02T15:04:05.000Z07:00"
	if precise {
		layout = "2006-01-02T15:04:05.000000000Z07:00"
	}
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(t.Format(layout))
	if ext == "" {
		return base + "." + stamp
	}
	return base + "." + stamp + "." + ext
}

// cleanup deletes archives beyond the maxFiles most recently modified ones.
// Failures are reported sideways; retention is best-effort.
func (s *rotatingStream) cleanup() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.report(&FileError{Op: "list", Path: s.dir, Err: err})
		return
	}

	live := filepath.Base(s.path)
	prefix := s.base + "."
	suffix := ""
	if s.ext != "" {
		suffix = "." + s.ext
	}

	type archive struct {
		name    string
		modTime time.Time
	}
	var archives []archive
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == live {
			continue
		}
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archives = append(archives, archive{name: name, modTime: info.ModTime()})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].modTime.After(archives[j].modTime)
	})

	for _, old := range archives[min(len(archives), s.maxFiles):] {
		if err := os.Remove(filepath.Join(s.dir, old.name)); err != nil {
			s.report(&FileError{Op: "delete", Path: old.name, Err: err})
		}
	}
}

// reconfigure applies new rotation limits to the live stream.
func (s *rotatingStream) reconfigure(maxSize int64, maxFiles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSize = maxSize
	s.maxFiles = maxFiles
}

// Sync flushes the live file to disk.
func (s *rotatingStream) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return &FileError{Op: "sync", Path: s.path, Err: err}
	}
	return nil
}

// Close syncs and closes the live file.
func (s *rotatingStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeHook != nil {
		s.closeHook()
	}
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return &FileError{Op: "sync", Path: s.path, Err: err}
	}
	if err := s.file.Close(); err != nil {
		return &FileError{Op: "close", Path: s.path, Err: err}
	}
	s.file = nil
	return nil
}

// destroy forcibly releases the file handle without syncing. Used when Close
// exceeds its bounded timeout. It bypasses the mutex: destroy exists to
// unblock a Close stalled in Sync, which holds the lock, and os.File methods
// are safe for concurrent use.
func (s *rotatingStream) destroy() {
	if f := s.file; f != nil {
		f.Close()
	}
}
