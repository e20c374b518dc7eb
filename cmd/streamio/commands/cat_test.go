package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/streamutil"
)

func TestCatRaw(t *testing.T) {
	setupTestEnv(t)
	data := bytes.Repeat([]byte("0123456789abcdef"), 10_000)
	f := writeTestFile(t, "data.bin", data)

	stdout := mustRun(t, "cat", f)
	if stdout != string(data) {
		t.Fatalf("cat returned %d bytes, want %d", len(stdout), len(data))
	}
}

func TestCatEncodings(t *testing.T) {
	setupTestEnv(t)
	f := writeTestFile(t, "hello.txt", []byte("hello"))

	tests := []struct {
		encoding string
		want     string
	}{
		{"raw", "hello"},
		{"base64", "aGVsbG8=\n"},
		{"HEX", "68656c6c6f\n"},
	}
	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			stdout := mustRun(t, "cat", "--encoding", tt.encoding, f)
			if stdout != tt.want {
				t.Fatalf("cat --encoding %s = %q, want %q", tt.encoding, stdout, tt.want)
			}
		})
	}
}

func TestCatUnknownEncoding(t *testing.T) {
	setupTestEnv(t)
	f := writeTestFile(t, "hello.txt", []byte("hello"))
	if _, _, code := runCmd(t, "", "cat", "--encoding", "rot13", f); code == 0 {
		t.Fatal("unknown encoding should fail")
	}
}

func TestCatStdin(t *testing.T) {
	setupTestEnv(t)

	stdout, stderr, code := runCmd(t, "piped", "cat", "-e", "hex", "-")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if stdout != "7069706564\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestCatMax(t *testing.T) {
	setupTestEnv(t)
	f := writeTestFile(t, "big.bin", make([]byte, 20_000))

	stdout := mustRun(t, "cat", "--max", "20000", f)
	if len(stdout) != 20_000 {
		t.Fatalf("cat at the limit returned %d bytes", len(stdout))
	}

	stdout, stderr, code := runCmd(t, "", "cat", "--max", "8KiB", f)
	if code == 0 {
		t.Fatal("cat over the limit should fail")
	}
	if !strings.Contains(stderr, "stream size limit exceeded") {
		t.Errorf("unexpected error: %s", stderr)
	}
	if stdout != "" {
		t.Errorf("cat over the limit printed %d bytes", len(stdout))
	}
}

func TestCatMaxInvalid(t *testing.T) {
	setupTestEnv(t)
	f := writeTestFile(t, "f", []byte("x"))
	if _, _, code := runCmd(t, "", "cat", "--max", "lots", f); code == 0 {
		t.Fatal("invalid --max should fail")
	}
}

func TestCatMaxStdin(t *testing.T) {
	setupTestEnv(t)

	_, stderr, code := runCmd(t, strings.Repeat("x", 10_000), "cat", "--max", "1KB", "-")
	if code == 0 || !strings.Contains(stderr, "stream size limit exceeded") {
		t.Fatalf("exit %d: %s", code, stderr)
	}
}

func TestCatMaxBeyondInt64(t *testing.T) {
	setupTestEnv(t)
	f := writeTestFile(t, "f", []byte("fits"))

	stdout := mustRun(t, "cat", "--max", "10EiB", f)
	if stdout != "fits" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestCatEncodingHelp(t *testing.T) {
	setupTestEnv(t)
	stdout := mustRun(t, "cat", "--help")
	if !strings.Contains(stdout, "raw, base64, hex") {
		t.Fatalf("help does not list encodings:\n%s", stdout)
	}
}

func TestReadEndpointStdinKeepsCallerOptions(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("piped"))

	opts := make([]streamutil.ReadOption, 1, 2)
	opts[0] = streamutil.WithMaxBytes(100)
	full := opts[:2]
	full[1] = streamutil.WithMaxBytes(1)

	data, err := readEndpoint(cmd, "-", opts...)
	if err != nil || string(data) != "piped" {
		t.Fatalf("readEndpoint = %q, %v", data, err)
	}
	if _, err := streamutil.ReadAll(strings.NewReader("too long"), full...); err == nil {
		t.Fatal("caller's max option was overwritten")
	}
}
