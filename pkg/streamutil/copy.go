package streamutil

import "io"

// copyBufferSize is the scratch buffer size for Copy.
const copyBufferSize = 64 * 1024

// Flusher is implemented by writers that buffer data internally, such as
// *bufio.Writer.
type Flusher interface {
	Flush() error
}

// Copy copies src to dst until src reports end of stream and returns the
// number of bytes written.
//
// After the copy loop, Copy closes src (if enabled and src is an io.Closer),
// then flushes dst if it implements Flusher, then closes dst (if enabled and
// dst is an io.Closer). dst is flushed whether or not it is closed afterwards.
// Both ends are closed by default; see WithCloseSource and
// WithCloseDestination.
//
// Any read, write, flush, or close error is returned unchanged together with
// the bytes written so far. A write that accepts fewer bytes than given fails
// with io.ErrShortWrite. Nothing is closed when the copy loop itself fails,
// and bytes already written are not rolled back.
func Copy(dst io.Writer, src io.Reader, opts ...CopyOption) (int64, error) {
	o := newCopyOptions(opts)

	buf := make([]byte, copyBufferSize)
	var (
		total int64
		p     progress
	)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			if w < 0 || w > n {
				w = 0
				if werr == nil {
					werr = io.ErrShortWrite
				}
			}
			total += int64(w)
			if werr != nil {
				return total, werr
			}
			if w != n {
				return total, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return total, rerr
		}
		if err := p.check(n); err != nil {
			return total, err
		}
	}

	if o.closeSource {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return total, err
			}
		}
	}
	if f, ok := dst.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return total, err
		}
	}
	if o.closeDestination {
		if c, ok := dst.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}
