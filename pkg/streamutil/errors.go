package streamutil

import (
	"errors"
	"fmt"
	"io"
)

// ErrSizeLimitExceeded is returned by ReadAll when the stream holds more
// bytes than the configured maximum.
var ErrSizeLimitExceeded = errors.New("stream size limit exceeded")

// maxEmptyReads bounds consecutive (0, nil) reads before a loop gives up
// with io.ErrNoProgress.
const maxEmptyReads = 100

// EarlyEOFError is returned by ReadFull when the stream ends before the
// buffer is filled. It matches io.ErrUnexpectedEOF with errors.Is.
type EarlyEOFError struct {
	// Offset is the number of bytes read before the stream ended.
	Offset int
	// Length is the number of bytes requested.
	Length int
}

func (e *EarlyEOFError) Error() string {
	return fmt.Sprintf("stream ended early, offset: %d len: %d", e.Offset, e.Length)
}

func (e *EarlyEOFError) Unwrap() error {
	return io.ErrUnexpectedEOF
}

// progress tracks consecutive empty reads for a read loop.
type progress int

func (p *progress) check(n int) error {
	if n > 0 {
		*p = 0
		return nil
	}
	*p++
	if *p >= maxEmptyReads {
		return io.ErrNoProgress
	}
	return nil
}
