package streamutil

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/haivivi/streamio/pkg/buffer"
)

// recordingWriter records writes, flushes and closes in order.
type recordingWriter struct {
	bytes.Buffer
	events   []string
	flushErr error
	closeErr error
}

func (w *recordingWriter) Flush() error {
	w.events = append(w.events, "flush")
	return w.flushErr
}

func (w *recordingWriter) Close() error {
	w.events = append(w.events, "close")
	return w.closeErr
}

// orderedSource appends its close event to a shared log.
type orderedSource struct {
	io.Reader
	log *[]string
}

func (s *orderedSource) Close() error {
	*s.log = append(*s.log, "close source")
	return nil
}

// shortWriter accepts at most limit bytes per call without an error.
type shortWriter struct {
	limit int
}

func (w shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return w.limit, nil
	}
	return len(p), nil
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestCopy(t *testing.T) {
	for _, size := range []int{0, 1, copyBufferSize - 1, copyBufferSize, copyBufferSize + 1, 5*copyBufferSize + 77} {
		data := pattern(size)
		var dst bytes.Buffer
		n, err := Copy(&dst, bytes.NewReader(data))
		if err != nil {
			t.Fatalf("size %d: Copy error: %v", size, err)
		}
		if n != int64(size) {
			t.Fatalf("size %d: Copy returned %d", size, n)
		}
		if !bytes.Equal(dst.Bytes(), data) {
			t.Fatalf("size %d: destination content mismatch", size)
		}
	}
}

func TestCopy_ClosesBothByDefault(t *testing.T) {
	src := &trackingReader{Reader: strings.NewReader("payload")}
	dst := &recordingWriter{}

	if _, err := Copy(dst, src); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if !src.closed {
		t.Error("source not closed")
	}
	if got := strings.Join(dst.events, ","); got != "flush,close" {
		t.Errorf("destination events = %q, want %q", got, "flush,close")
	}
	if dst.String() != "payload" {
		t.Errorf("destination = %q, want %q", dst.String(), "payload")
	}
}

func TestCopy_Order(t *testing.T) {
	var events []string
	src := &orderedSource{Reader: strings.NewReader("x"), log: &events}
	dst := &recordingWriter{}

	if _, err := Copy(dst, src); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	events = append(events, dst.events...)
	if got := strings.Join(events, ","); got != "close source,flush,close" {
		t.Fatalf("events = %q, want source close, then flush, then destination close", got)
	}
}

func TestCopy_KeepOpen(t *testing.T) {
	tests := []struct {
		name           string
		opts           []CopyOption
		wantSrcClosed  bool
		wantDestEvents string
	}{
		{"keep source", []CopyOption{WithCloseSource(false)}, false, "flush,close"},
		{"keep destination", []CopyOption{WithCloseDestination(false)}, true, "flush"},
		{"keep both", []CopyOption{WithCloseSource(false), WithCloseDestination(false)}, false, "flush"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &trackingReader{Reader: strings.NewReader("abc")}
			dst := &recordingWriter{}
			n, err := Copy(dst, src, tt.opts...)
			if err != nil {
				t.Fatalf("Copy error: %v", err)
			}
			if n != 3 {
				t.Fatalf("Copy returned %d, want 3", n)
			}
			if src.closed != tt.wantSrcClosed {
				t.Errorf("source closed = %v, want %v", src.closed, tt.wantSrcClosed)
			}
			if got := strings.Join(dst.events, ","); got != tt.wantDestEvents {
				t.Errorf("destination events = %q, want %q", got, tt.wantDestEvents)
			}
		})
	}
}

func TestCopy_FlushesBufferedWriter(t *testing.T) {
	var out bytes.Buffer
	bw := bufio.NewWriterSize(&out, 1<<20)

	n, err := Copy(bw, strings.NewReader("buffered"), WithCloseDestination(false))
	if err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if n != 8 {
		t.Fatalf("Copy returned %d, want 8", n)
	}
	if out.String() != "buffered" {
		t.Fatalf("underlying writer = %q, want flushed content", out.String())
	}
}

func TestCopy_ReadError(t *testing.T) {
	boom := errors.New("boom")
	src := &trackingReader{Reader: io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(boom))}
	dst := &recordingWriter{}

	n, err := Copy(dst, src)
	if !errors.Is(err, boom) {
		t.Fatalf("Copy error = %v, want %v", err, boom)
	}
	if n != 3 {
		t.Fatalf("Copy returned %d, want 3 bytes written before failure", n)
	}
	if dst.String() != "abc" {
		t.Fatalf("partial copy = %q, want %q", dst.String(), "abc")
	}
	if src.closed || len(dst.events) != 0 {
		t.Fatal("streams touched after a read failure")
	}
}

func TestCopy_WriteError(t *testing.T) {
	boom := errors.New("disk full")
	n, err := Copy(failingWriter{err: boom}, strings.NewReader("abc"))
	if !errors.Is(err, boom) {
		t.Fatalf("Copy error = %v, want %v", err, boom)
	}
	if n != 0 {
		t.Fatalf("Copy returned %d, want 0", n)
	}
}

func TestCopy_ShortWrite(t *testing.T) {
	n, err := Copy(shortWriter{limit: 2}, strings.NewReader("abcdef"))
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("Copy error = %v, want ErrShortWrite", err)
	}
	if n != 2 {
		t.Fatalf("Copy returned %d, want 2", n)
	}
}

func TestCopy_FlushError(t *testing.T) {
	flushErr := errors.New("flush failed")
	dst := &recordingWriter{flushErr: flushErr}
	n, err := Copy(dst, strings.NewReader("abc"))
	if !errors.Is(err, flushErr) {
		t.Fatalf("Copy error = %v, want %v", err, flushErr)
	}
	if n != 3 {
		t.Fatalf("Copy returned %d, want 3", n)
	}
	if got := strings.Join(dst.events, ","); got != "flush" {
		t.Fatalf("destination events = %q, want only a flush", got)
	}
}

func TestCopy_CloseErrors(t *testing.T) {
	closeErr := errors.New("close failed")

	src := &trackingReader{Reader: strings.NewReader("abc"), closeErr: closeErr}
	if _, err := Copy(&recordingWriter{}, src); !errors.Is(err, closeErr) {
		t.Fatalf("source close: Copy error = %v, want %v", err, closeErr)
	}

	dst := &recordingWriter{closeErr: closeErr}
	n, err := Copy(dst, strings.NewReader("abc"))
	if !errors.Is(err, closeErr) {
		t.Fatalf("destination close: Copy error = %v, want %v", err, closeErr)
	}
	if n != 3 {
		t.Fatalf("Copy returned %d, want 3", n)
	}
}

func TestCopy_IntoBuffer(t *testing.T) {
	data := pattern(3*copyBufferSize + 1)
	dst := buffer.Bytes()

	n, err := Copy(dst, bytes.NewReader(data), WithCloseDestination(false))
	if err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if n != int64(len(data)) {
		t.Fatalf("Copy returned %d, want %d", n, len(data))
	}
	if !bytes.Equal(dst.Bytes(), data) {
		t.Fatal("buffer content mismatch")
	}
}

func TestCopy_ThroughPipe(t *testing.T) {
	data := pattern(200_000)
	pipe := buffer.Bytes()

	errc := make(chan error, 1)
	go func() {
		// Closing the destination of this copy would drop the buffered data,
		// so the producer ends the stream with CloseWrite instead.
		_, err := Copy(pipe, bytes.NewReader(data), WithCloseDestination(false))
		pipe.CloseWrite()
		errc <- err
	}()

	got, err := ReadAll(pipe, WithCloseWhenDone(false))
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("pipe content mismatch")
	}
}
