// Package encoding provides streaming text encoders for binary data, for
// writing bytes to terminals and text-only sinks.
package encoding

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Format names a binary-to-text encoding.
type Format string

const (
	// Raw passes bytes through unchanged.
	Raw Format = "raw"
	// Base64 is standard padded base64.
	Base64 Format = "base64"
	// Hex is lowercase hexadecimal.
	Hex Format = "hex"
)

// Formats lists the supported formats.
var Formats = []Format{Raw, Base64, Hex}

// ParseFormat parses a format name, case-insensitively. An empty name is Raw.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Raw, nil
	case Raw, Base64, Hex:
		return f, nil
	default:
		return "", fmt.Errorf("encoding: unknown format %q (want raw, base64 or hex)", s)
	}
}

// NewWriter returns a writer that encodes everything written to it in format
// f and writes the result to w.
//
// Close flushes any partially encoded block (base64 keeps up to two pending
// bytes) but does not close w.
func NewWriter(f Format, w io.Writer) (io.WriteCloser, error) {
	switch f {
	case Raw, "":
		return nopCloser{w}, nil
	case Base64:
		return base64.NewEncoder(base64.StdEncoding, w), nil
	case Hex:
		return nopCloser{hex.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("encoding: unknown format %q", f)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
