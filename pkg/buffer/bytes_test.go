package buffer

import (
	"bytes"
	"io"
	"testing"
)

func TestBytes(t *testing.T) {
	buf := Bytes()
	if buf == nil {
		t.Fatal("Bytes returned nil")
	}

	data := bytes.Repeat([]byte{0xab}, DefaultSize*3)
	n, err := buf.Write(data)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n != len(data) {
		t.Fatalf("Write returned %d, want %d", n, len(data))
	}
	if buf.Len() != len(data) {
		t.Fatalf("Len() = %d, want %d", buf.Len(), len(data))
	}
}

func TestBytesBuffer_Interface(t *testing.T) {
	var bb BytesBuffer = Bytes()

	bb.Write([]byte("hello"))
	bb.CloseWrite()

	got, err := io.ReadAll(bb)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("ReadAll = %q, want %q", got, "hello")
	}
	if bb.Error() != nil {
		t.Fatalf("Error() = %v, want nil", bb.Error())
	}
}
