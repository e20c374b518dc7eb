package buffer

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// Buffer is a thread-safe growable buffer of T.
//
// Writes append to the tail and never block. Reads consume from the head and
// block while the buffer is empty, until more data is written or the write
// side is closed. After CloseWrite, reads return io.EOF once the buffer has
// been drained. After CloseWithError, every operation fails with the given
// error and the buffered data is released.
type Buffer[T any] struct {
	writeNotify chan struct{}

	mu         sync.Mutex
	closeWrite bool
	closeErr   error
	buf        []T
}

// N creates a Buffer with an initial capacity of n elements. The capacity is a
// hint; the buffer grows past it as needed.
func N[T any](n int) *Buffer[T] {
	return &Buffer[T]{
		writeNotify: make(chan struct{}, 1),
		buf:         make([]T, 0, n),
	}
}

// Write appends p to the buffer and wakes a blocked reader.
//
// It returns len(p) on success. Writing after CloseWrite fails with an error
// wrapping io.ErrClosedPipe; writing after CloseWithError fails with an error
// wrapping the close error.
func (b *Buffer[T]) Write(p []T) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writableLocked(); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	select {
	case b.writeNotify <- struct{}{}:
	default:
	}
	return len(p), nil
}

func (b *Buffer[T]) writableLocked() error {
	if b.closeErr != nil {
		return fmt.Errorf("buffer: write to closed buffer: %w", b.closeErr)
	}
	if b.closeWrite {
		return fmt.Errorf("buffer: write to closed buffer: %w", io.ErrClosedPipe)
	}
	return nil
}

// Read copies buffered elements into p, blocking until at least one element
// is available. It returns io.EOF once the write side is closed and the
// buffer is empty.
func (b *Buffer[T]) Read(p []T) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeErr != nil {
		return 0, fmt.Errorf("buffer: read from closed buffer: %w", b.closeErr)
	}
	if len(p) == 0 {
		return 0, nil
	}
	for len(b.buf) == 0 {
		if b.closeWrite {
			return 0, io.EOF
		}
		b.mu.Unlock()
		<-b.writeNotify
		b.mu.Lock()
		if b.closeErr != nil {
			return 0, fmt.Errorf("buffer: read from closed buffer: %w", b.closeErr)
		}
	}
	n = copy(p, b.buf)
	b.buf = b.buf[n:]
	return n, nil
}

// Grow makes room for at least n more elements without another allocation.
func (b *Buffer[T]) Grow(n int) {
	if n <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = slices.Grow(b.buf, n)
}

// CloseWrite closes the write side. Buffered data stays readable.
// Closing twice is a no-op.
func (b *Buffer[T]) CloseWrite() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeWrite {
		return nil
	}
	b.closeWrite = true
	close(b.writeNotify)
	return nil
}

// CloseWithError closes both sides with err and drops the buffered data. A
// nil err means io.ErrClosedPipe. Only the first close error is kept.
func (b *Buffer[T]) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeErr != nil {
		return nil
	}
	b.closeErr = err
	b.buf = nil
	if !b.closeWrite {
		b.closeWrite = true
		close(b.writeNotify)
	}
	return nil
}

// Close is CloseWithError(io.ErrClosedPipe).
func (b *Buffer[T]) Close() error {
	return b.CloseWithError(io.ErrClosedPipe)
}

// Error returns the error the buffer was closed with, or nil.
func (b *Buffer[T]) Error() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeErr
}

// Reset discards the buffered data, keeping the allocated capacity. It does
// not reopen a closed buffer.
func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = b.buf[:0]
}

// Len returns the number of buffered elements.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// Bytes returns a copy of the buffered elements. The buffer is left unchanged.
// An empty buffer yields a non-nil empty slice.
func (b *Buffer[T]) Bytes() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.buf))
	copy(out, b.buf)
	return out
}
