// Package main is the entry point for the streamio CLI.
//
// Usage:
//
//	streamio [flags] <command> [args]
//
// Commands:
//
//	len      - Count the bytes of one or more streams
//	cat      - Print a stream, optionally bounded and encoded
//	cp       - Copy a stream between files, stores and stdio
//	config   - Manage storage contexts
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/streamio/cmd/streamio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
