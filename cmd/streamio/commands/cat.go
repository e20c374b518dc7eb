package commands

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/encoding"
	"github.com/haivivi/streamio/pkg/storage"
	"github.com/haivivi/streamio/pkg/streamutil"
)

var (
	catMax      string
	catEncoding string
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a stream to stdout",
	Long: `Print a stream to stdout, optionally encoded as base64 or hex.

The stream is loaded fully before anything is printed. With --max, a stream
larger than the limit fails with "stream size limit exceeded" and prints
nothing. Sizes accept units, e.g. 512, 64KiB, 10MB.

Examples:
  streamio cat notes.txt
  streamio cat --max 1MiB --encoding base64 home:key.bin
  echo hello | streamio cat --encoding hex -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := encoding.ParseFormat(catEncoding)
		if err != nil {
			return err
		}
		var readOpts []streamutil.ReadOption
		if catMax != "" {
			limit, err := humanize.ParseBytes(catMax)
			if err != nil {
				return fmt.Errorf("invalid --max %q: %w", catMax, err)
			}
			// Anything past MaxInt64 is as good as no limit.
			readOpts = append(readOpts, streamutil.WithMaxBytes(int64(min(limit, math.MaxInt64))))
		}

		data, err := readEndpoint(cmd, args[0], readOpts...)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		enc, err := encoding.NewWriter(format, out)
		if err != nil {
			return err
		}
		// Closing the encoder flushes it; stdout stays open.
		if _, err := streamutil.Copy(enc, bytes.NewReader(data)); err != nil {
			return err
		}
		if format != encoding.Raw {
			_, err = io.WriteString(out, "\n")
		}
		return err
	},
}

// readEndpoint loads the stream named by arg into memory.
func readEndpoint(cmd *cobra.Command, arg string, opts ...streamutil.ReadOption) ([]byte, error) {
	e, err := parseEndpoint(arg)
	if err != nil {
		return nil, err
	}
	if e.stdio {
		opts = append(slices.Clip(opts), streamutil.WithCloseWhenDone(false))
		return streamutil.ReadAll(cmd.InOrStdin(), opts...)
	}
	fs, path, release, err := e.store(false)
	if err != nil {
		return nil, err
	}
	defer release()
	return storage.ReadFile(cmd.Context(), fs, path, opts...)
}

// formatNames lists the supported encodings for help text.
func formatNames() string {
	names := make([]string, len(encoding.Formats))
	for i, f := range encoding.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func init() {
	catCmd.Flags().StringVar(&catMax, "max", "", "fail if the stream is larger than this size")
	catCmd.Flags().StringVarP(&catEncoding, "encoding", "e", string(encoding.Raw), "output encoding: "+formatNames())
	rootCmd.AddCommand(catCmd)
}
