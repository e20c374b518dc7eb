package storage

import (
	"context"
	"io"
)

// ContextReader wraps r so that reads fail with ctx.Err() once ctx is done.
// Close is passed through to r.
//
// A read already blocked inside r is not interrupted; cancellation takes
// effect at the next call.
func ContextReader(ctx context.Context, r io.ReadCloser) io.ReadCloser {
	if ctx == nil || ctx.Done() == nil {
		return r
	}
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.ReadCloser
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func (c *ctxReader) Close() error {
	return c.r.Close()
}
