package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// DefaultMaxSize is the size at which a log file is rotated.
const DefaultMaxSize = 2 * 1024 * 1024 // 2MB

// RotatingWriter appends to a file and moves it to path+".1" once it grows
// past maxSize. One backup is kept.
type RotatingWriter struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	size    int64
	maxSize int64
}

// OpenRotating opens path for appending. A file already larger than maxSize
// is truncated.
func OpenRotating(path string, maxSize int64) (*RotatingWriter, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if info, err := os.Stat(path); err == nil && info.Size() > maxSize {
		if err := os.Truncate(path, 0); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return &RotatingWriter{file: f, path: path, size: size, maxSize: maxSize}, nil
}

// Setup sends application logs and the standard logger to stderr and, when
// path is set, to a rotating file as well. The returned closer is never nil.
func Setup(path string, level Level) (io.Closer, error) {
	SetLevel(level)
	if path == "" {
		SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	rw, err := OpenRotating(path, DefaultMaxSize)
	if err != nil {
		return nil, err
	}
	multi := io.MultiWriter(os.Stderr, rw)
	SetOutput(multi)
	log.SetOutput(multi)
	return rw, nil
}

// Write appends p and rotates once the file passes maxSize. A failed rotation
// keeps the current file open and is reported by this Write; it is retried
// after another maxSize bytes.
func (w *RotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.file.Write(p)
	w.size += int64(n)
	if w.size > w.maxSize {
		if rerr := w.rotate(); err == nil {
			err = rerr
		}
	}
	return n, err
}

func (w *RotatingWriter) rotate() error {
	if err := os.Rename(w.path, w.path+".1"); err != nil {
		w.size = 0
		return fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		// The open handle now points at the backup; keep writing there.
		w.size = 0
		return fmt.Errorf("rotate log: %w", err)
	}

	old := w.file
	w.file = f
	w.size = 0
	if err := old.Close(); err != nil {
		return fmt.Errorf("rotate log: close backup: %w", err)
	}
	return nil
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
