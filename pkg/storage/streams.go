package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/haivivi/streamio/pkg/streamutil"
)

// Length opens path and drains it to count its bytes.
func Length(ctx context.Context, fs FileStore, path string) (int64, error) {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return 0, err
	}
	defer streamutil.Close(r)

	n, err := streamutil.Length(r)
	if err != nil {
		return n, fmt.Errorf("storage: length %s: %w", path, err)
	}
	return n, nil
}

// ReadFile loads path into memory. Options are passed to streamutil.ReadAll,
// so WithMaxBytes bounds the load. The file is always closed.
func ReadFile(ctx context.Context, fs FileStore, path string, opts ...streamutil.ReadOption) ([]byte, error) {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer streamutil.Close(r)
	opts = append(slices.Clip(opts), streamutil.WithCloseWhenDone(false))

	data, err := streamutil.ReadAll(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile stores data under path.
func WriteFile(ctx context.Context, fs FileStore, path string, data []byte) error {
	_, err := WriteFrom(ctx, fs, path, bytes.NewReader(data))
	return err
}

// WriteFrom copies r into path and returns the number of bytes written. r is
// not closed. The destination is committed by closing it only after a
// complete copy; on failure it is aborted when the backend supports that, so
// no partial file is left behind.
func WriteFrom(ctx context.Context, fs FileStore, path string, r io.Reader) (int64, error) {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return 0, err
	}
	n, err := streamutil.Copy(w, r,
		streamutil.WithCloseSource(false),
		streamutil.WithCloseDestination(false))
	if err != nil {
		abort(w, err)
		return n, fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("storage: write %s: %w", path, err)
	}
	return n, nil
}

// Transfer copies srcPath in src to dstPath in dst and returns the number of
// bytes copied. The source is always closed; the destination follows the
// rules of WriteFrom.
func Transfer(ctx context.Context, src FileStore, srcPath string, dst FileStore, dstPath string) (int64, error) {
	r, err := src.Read(ctx, srcPath)
	if err != nil {
		return 0, err
	}
	defer streamutil.Close(r)

	n, err := WriteFrom(ctx, dst, dstPath, r)
	if err != nil {
		return n, fmt.Errorf("storage: transfer %s -> %s: %w", srcPath, dstPath, err)
	}
	return n, nil
}

// aborter is implemented by writers that can discard what was written
// instead of committing it.
type aborter interface {
	Abort(cause error) error
}

// abort discards w if it supports that and closes it otherwise. Failures
// are logged.
func abort(w io.WriteCloser, cause error) {
	a, ok := w.(aborter)
	if !ok {
		streamutil.Close(w)
		return
	}
	if err := a.Abort(cause); err != nil {
		slog.Warn("abort failed", "module", "storage", "error", err)
	}
}
