package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/haivivi/streamio/pkg/buffer"
	"github.com/haivivi/streamio/pkg/streamutil"
)

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files.
	// Required unless InMemory is set.
	Dir string

	// InMemory runs BadgerDB without disk persistence.
	InMemory bool

	// MaxFileSize caps a single stored file. Writes past it fail when the
	// writer is closed. Zero means no limit.
	MaxFileSize int64

	// Logger receives badger's warnings and errors. Nil uses slog.Default().
	Logger *slog.Logger
}

// BadgerStore implements FileStore on an embedded BadgerDB. Each file is a
// single value keyed by its path, so files are loaded into memory whole.
type BadgerStore struct {
	db      *badger.DB
	maxSize int64
}

// NewBadger opens a BadgerDB-backed FileStore.
func NewBadger(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("storage: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{lg.With("module", "storage", "backend", "badger")})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}
	return &BadgerStore{db: db, maxSize: opts.MaxFileSize}, nil
}

func badgerKey(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	return []byte(path), nil
}

// Read returns the stored value for path as a stream.
func (b *BadgerStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	k, err := badgerKey(path)
	if err != nil {
		return nil, err
	}
	var val []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	return ContextReader(ctx, io.NopCloser(bytes.NewReader(val))), nil
}

// Write returns a writer that accumulates data in memory and stores it under
// path when closed. Nothing is stored if Close is never called.
func (b *BadgerStore) Write(_ context.Context, path string) (io.WriteCloser, error) {
	k, err := badgerKey(path)
	if err != nil {
		return nil, err
	}
	return &badgerWriter{store: b, key: k, buf: buffer.Bytes()}, nil
}

// Delete removes path. Missing keys are not an error.
func (b *BadgerStore) Delete(_ context.Context, path string) error {
	k, err := badgerKey(path)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Exists reports whether path has a stored value.
func (b *BadgerStore) Exists(_ context.Context, path string) (bool, error) {
	k, err := badgerKey(path)
	if err != nil {
		return false, err
	}
	err = b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(k)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Close closes the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

type badgerWriter struct {
	store *BadgerStore
	key   []byte
	buf   *buffer.Buffer[byte]
}

func (w *badgerWriter) Write(p []byte) (int, error) {
	if limit := w.store.maxSize; limit > 0 && int64(w.buf.Len()+len(p)) > limit {
		w.buf.CloseWithError(streamutil.ErrSizeLimitExceeded)
		return 0, fmt.Errorf("storage: write %s: %w", w.key, streamutil.ErrSizeLimitExceeded)
	}
	return w.buf.Write(p)
}

// Close commits the accumulated bytes. A writer that already failed returns
// its error without storing anything.
func (w *badgerWriter) Close() error {
	if err := w.buf.Error(); err != nil {
		return fmt.Errorf("storage: write %s: %w", w.key, err)
	}
	data := w.buf.Bytes()
	if err := w.buf.Close(); err != nil {
		return err
	}
	return w.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(w.key, data)
	})
}

// Abort drops the accumulated bytes without storing them.
func (w *badgerWriter) Abort(cause error) error {
	return w.buf.CloseWithError(cause)
}

// badgerLogger forwards badger warnings and errors to slog and drops the
// chatty info and debug output.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(f string, v ...any)   { b.l.Error(fmt.Sprintf(f, v...)) }
func (b badgerLogger) Warningf(f string, v ...any) { b.l.Warn(fmt.Sprintf(f, v...)) }
func (badgerLogger) Infof(string, ...any)          {}
func (badgerLogger) Debugf(string, ...any)         {}

var _ FileStore = (*BadgerStore)(nil)
