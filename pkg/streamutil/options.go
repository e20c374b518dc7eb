package streamutil

import "math"

// ReadOption configures ReadAll and ReadAllString.
type ReadOption func(*readOptions)

type readOptions struct {
	maxBytes      int64
	closeWhenDone bool
}

func newReadOptions(opts []ReadOption) readOptions {
	o := readOptions{
		maxBytes:      math.MaxInt64,
		closeWhenDone: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxBytes caps the number of bytes ReadAll accepts. Reading past n
// fails with ErrSizeLimitExceeded. The default is unbounded.
func WithMaxBytes(n int64) ReadOption {
	return func(o *readOptions) { o.maxBytes = n }
}

// WithCloseWhenDone controls whether ReadAll closes the reader after
// draining it. The default is true. The reader is only closed if it
// implements io.Closer.
func WithCloseWhenDone(close bool) ReadOption {
	return func(o *readOptions) { o.closeWhenDone = close }
}

// CopyOption configures Copy.
type CopyOption func(*copyOptions)

type copyOptions struct {
	closeSource      bool
	closeDestination bool
}

func newCopyOptions(opts []CopyOption) copyOptions {
	o := copyOptions{
		closeSource:      true,
		closeDestination: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCloseSource controls whether Copy closes the source after the copy
// completes. The default is true.
func WithCloseSource(close bool) CopyOption {
	return func(o *copyOptions) { o.closeSource = close }
}

// WithCloseDestination controls whether Copy closes the destination after
// flushing it. The default is true.
func WithCloseDestination(close bool) CopyOption {
	return func(o *copyOptions) { o.closeDestination = close }
}
