package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
	"github.com/haivivi/streamio/pkg/storage"
	"github.com/haivivi/streamio/pkg/streamutil"
)

var (
	lenHuman  bool
	lenOutput string
)

// lengthResult is one line of `streamio len` output.
type lengthResult struct {
	Path  string `json:"path" yaml:"path"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
	Size  string `json:"size,omitempty" yaml:"size,omitempty"`
}

var lenCmd = &cobra.Command{
	Use:   "len <path>...",
	Short: "Count the bytes of one or more streams",
	Long: `Count the bytes of each stream by reading it to the end.

The stream is drained rather than stat'ed, so the result is the number of
bytes a reader actually receives.

Examples:
  streamio len report.pdf
  streamio len --human media:videos/intro.mp4 media:videos/outro.mp4
  curl -s https://example.com | streamio len -o json -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(lenOutput)
		if err != nil {
			return err
		}

		var results []lengthResult
		for _, arg := range args {
			n, err := streamLength(cmd, arg)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
			slog.Debug("measured stream", "path", arg, "bytes", n)
			res := lengthResult{Path: arg, Bytes: n}
			if lenHuman {
				res.Size = cli.FormatSize(n, true)
			}
			results = append(results, res)
		}

		if format == cli.FormatRaw {
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cli.FormatSize(res.Bytes, lenHuman), res.Path)
			}
			return nil
		}
		return cli.Output(results, cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
	},
}

func streamLength(cmd *cobra.Command, arg string) (int64, error) {
	e, err := parseEndpoint(arg)
	if err != nil {
		return 0, err
	}
	if e.stdio {
		return streamutil.Length(cmd.InOrStdin())
	}
	fs, path, release, err := e.store(false)
	if err != nil {
		return 0, err
	}
	defer release()
	return storage.Length(cmd.Context(), fs, path)
}

func init() {
	lenCmd.Flags().BoolVarP(&lenHuman, "human", "H", false, "print sizes in binary units (KiB, MiB, ...)")
	lenCmd.Flags().StringVarP(&lenOutput, "output", "o", "raw", "output format: raw, yaml or json")
	rootCmd.AddCommand(lenCmd)
}
