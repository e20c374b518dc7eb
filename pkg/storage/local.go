package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// localWriteBufferSize is the bufio size in front of files opened by Write.
const localWriteBufferSize = 32 * 1024

// Local implements FileStore on top of the local filesystem.
// All paths are resolved relative to the configured root directory and may
// not escape it.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at dir.
// The directory is created (with parents) if it does not already exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (l *Local) Root() string {
	return l.root
}

// resolve turns a storage path into an absolute filesystem path.
func (l *Local) resolve(path string) (string, error) {
	p := filepath.FromSlash(path)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return filepath.Join(l.root, p), nil
}

// Read opens the named file for reading. Reads fail with the context error
// once ctx is done.
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	return ContextReader(ctx, f), nil
}

// Write opens the named file for writing, creating parent directories as
// needed. If the file already exists it is truncated.
//
// The returned writer is buffered: it implements Flush, and Close flushes
// before closing the file.
func (l *Local) Write(_ context.Context, path string) (io.WriteCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	return &fileWriter{f: f, w: bufio.NewWriterSize(f, localWriteBufferSize), path: full}, nil
}

// Delete removes the named file. If the file does not exist, Delete
// returns nil (idempotent).
func (l *Local) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether the named file exists.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// fileWriter is a buffered writer over an *os.File.
type fileWriter struct {
	f      *os.File
	w      *bufio.Writer
	path   string
	closed bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.w.Write(p)
}

func (w *fileWriter) Flush() error {
	if w.closed {
		return os.ErrClosed
	}
	return w.w.Flush()
}

// Close flushes buffered data and closes the file. The file is closed even
// if the flush fails; the flush error wins.
func (w *fileWriter) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true
	flushErr := w.w.Flush()
	closeErr := w.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Abort closes the file without flushing and removes it.
func (w *fileWriter) Abort(error) error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true
	closeErr := w.f.Close()
	if err := os.Remove(w.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return closeErr
}

var _ FileStore = (*Local)(nil)
