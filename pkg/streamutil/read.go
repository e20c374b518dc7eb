package streamutil

import (
	"fmt"
	"io"

	"github.com/haivivi/streamio/pkg/buffer"
)

// chunkSize is the scratch buffer size for Length and ReadAll.
const chunkSize = 4096

// Length drains r and returns the number of bytes it produced.
//
// The stream is consumed but not closed. On a read failure Length returns the
// bytes counted so far together with the error.
func Length(r io.Reader) (int64, error) {
	chunk := make([]byte, chunkSize)
	var (
		total int64
		p     progress
	)
	for {
		n, err := r.Read(chunk)
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if err := p.check(n); err != nil {
			return total, err
		}
	}
}

// ReadFull reads exactly len(buf) bytes from r into buf, issuing as many
// reads as short reads require. To fill only the first n bytes of a larger
// buffer, pass buf[:n]; the rest of the buffer is left untouched.
//
// If the stream ends first, ReadFull returns an *EarlyEOFError carrying the
// offset reached. Other read errors are returned unchanged. The contents of
// buf are unspecified on failure.
func ReadFull(r io.Reader, buf []byte) error {
	var (
		offset int
		p      progress
	)
	for offset < len(buf) {
		n, err := r.Read(buf[offset:])
		offset += n
		if offset >= len(buf) {
			return nil
		}
		if err == io.EOF {
			return &EarlyEOFError{Offset: offset, Length: len(buf)}
		}
		if err != nil {
			return err
		}
		if err := p.check(n); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll reads r until end of stream and returns the bytes in a newly
// allocated slice, which is empty rather than nil for an empty stream.
//
// By default there is no size limit and r is closed after it has been
// drained, if it implements io.Closer. With WithMaxBytes, the total is
// checked after each 4 KiB chunk and ReadAll fails with ErrSizeLimitExceeded
// once it goes past the limit, so up to one chunk beyond the limit may have
// been consumed from r.
//
// r is only closed on the success path. When the limit is exceeded or a read
// fails, r is left open and the caller remains responsible for it.
func ReadAll(r io.Reader, opts ...ReadOption) ([]byte, error) {
	o := newReadOptions(opts)

	acc := buffer.Bytes()
	defer acc.Close()

	chunk := make([]byte, chunkSize)
	var (
		total int64
		p     progress
	)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if _, werr := acc.Write(chunk[:n]); werr != nil {
				return nil, werr
			}
			total += int64(n)
			if total > o.maxBytes {
				return nil, fmt.Errorf("streamutil: %w (read %d bytes, max %d)", ErrSizeLimitExceeded, total, o.maxBytes)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := p.check(n); err != nil {
			return nil, err
		}
	}

	if o.closeWhenDone {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return nil, err
			}
		}
	}
	return acc.Bytes(), nil
}

// ReadAllString is ReadAll followed by a conversion to string. The bytes are
// not transcoded.
func ReadAllString(r io.Reader, opts ...ReadOption) (string, error) {
	b, err := ReadAll(r, opts...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
