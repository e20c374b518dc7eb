package buffer

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

func TestBuffer_WriteRead(t *testing.T) {
	buf := N[byte](10)

	n, err := buf.Write([]byte{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n != 5 {
		t.Fatalf("Write returned %d, want 5", n)
	}
	if buf.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", buf.Len())
	}

	buf.CloseWrite()

	got := make([]byte, 10)
	n, err = buf.Read(got)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(got[:n], []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("Read got %v, want [1,2,3,4,5]", got[:n])
	}

	_, err = buf.Read(got)
	if err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestBuffer_GrowsPastInitialCapacity(t *testing.T) {
	buf := N[byte](4)

	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i)
	}
	for i := 0; i < len(data); i += 1000 {
		if _, err := buf.Write(data[i : i+1000]); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Fatal("Bytes() mismatch after growth")
	}
}

func TestBuffer_BytesIsCopy(t *testing.T) {
	buf := Bytes()
	buf.Write([]byte{1, 2, 3})

	b := buf.Bytes()
	b[0] = 9

	if got := buf.Bytes(); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("Bytes() = %v after mutating a copy", got)
	}
}

func TestBuffer_BytesEmpty(t *testing.T) {
	buf := Bytes()
	b := buf.Bytes()
	if b == nil || len(b) != 0 {
		t.Fatalf("Bytes() = %#v, want empty non-nil", b)
	}
}

func TestBuffer_Grow(t *testing.T) {
	buf := N[byte](0)
	buf.Grow(128)
	buf.Grow(-1)
	buf.Write([]byte("abc"))
	if buf.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", buf.Len())
	}
}

func TestBuffer_ConcurrentWriteRead(t *testing.T) {
	buf := N[byte](100)

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < len(data); i += 32 {
			if _, err := buf.Write(data[i : i+32]); err != nil {
				t.Errorf("Write error: %v", err)
				return
			}
		}
		buf.CloseWrite()
	}()

	var received []byte
	go func() {
		defer wg.Done()
		tmp := make([]byte, 64)
		for {
			n, err := buf.Read(tmp)
			if err == io.EOF {
				return
			}
			if err != nil {
				t.Errorf("Read error: %v", err)
				return
			}
			received = append(received, tmp[:n]...)
		}
	}()

	wg.Wait()

	if !bytes.Equal(received, data) {
		t.Errorf("received data mismatch")
	}
}

func TestBuffer_Reset(t *testing.T) {
	buf := N[byte](10)
	buf.Write([]byte{1, 2, 3, 4, 5})

	buf.Reset()

	if buf.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", buf.Len())
	}
}

func TestBuffer_CloseWithError(t *testing.T) {
	buf := N[byte](10)
	buf.Write([]byte{1, 2, 3})

	customErr := errors.New("custom error")
	buf.CloseWithError(customErr)

	if buf.Error() != customErr {
		t.Fatalf("Error() = %v, want %v", buf.Error(), customErr)
	}
	if buf.Len() != 0 {
		t.Fatalf("Len() = %d after CloseWithError, want 0", buf.Len())
	}

	_, err := buf.Write([]byte{4, 5})
	if !errors.Is(err, customErr) {
		t.Fatalf("Write error should wrap customErr, got %v", err)
	}

	_, err = buf.Read(make([]byte, 10))
	if !errors.Is(err, customErr) {
		t.Fatalf("Read error should wrap customErr, got %v", err)
	}
}

func TestBuffer_Close(t *testing.T) {
	buf := N[byte](10)
	buf.Close()

	_, err := buf.Write([]byte{4, 5})
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Write error should wrap ErrClosedPipe, got %v", err)
	}
}

func TestBuffer_CloseWriteThenRead(t *testing.T) {
	buf := N[byte](10)
	buf.Write([]byte{1, 2, 3})
	buf.CloseWrite()

	got := make([]byte, 10)
	n, err := buf.Read(got)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != 3 {
		t.Fatalf("Read returned %d, want 3", n)
	}

	if _, err = buf.Read(got); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}

	if _, err = buf.Write([]byte{4}); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Write after CloseWrite: got %v, want ErrClosedPipe", err)
	}
}

func TestBuffer_BlockingRead(t *testing.T) {
	buf := N[byte](10)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tmp := make([]byte, 5)
		n, err := buf.Read(tmp)
		if err != nil {
			t.Errorf("Read error: %v", err)
			return
		}
		if n != 3 {
			t.Errorf("Read returned %d, want 3", n)
		}
	}()

	time.Sleep(50 * time.Millisecond)

	buf.Write([]byte{1, 2, 3})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock")
	}
}

func TestBuffer_CloseUnblocksReader(t *testing.T) {
	buf := N[byte](10)

	errc := make(chan error, 1)
	go func() {
		_, err := buf.Read(make([]byte, 4))
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	buf.CloseWithError(io.ErrUnexpectedEOF)

	select {
	case err := <-errc:
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("Read error = %v, want ErrUnexpectedEOF", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock")
	}
}

func TestBuffer_DoubleClose(t *testing.T) {
	buf := N[byte](10)

	if err := buf.CloseWrite(); err != nil {
		t.Fatalf("first CloseWrite error: %v", err)
	}
	if err := buf.CloseWrite(); err != nil {
		t.Fatalf("second CloseWrite error: %v", err)
	}

	err1 := errors.New("error1")
	buf.CloseWithError(err1)
	buf.CloseWithError(errors.New("error2"))
	if buf.Error() != err1 {
		t.Fatalf("Error() = %v, want %v", buf.Error(), err1)
	}
}
