package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
	"github.com/haivivi/streamio/pkg/storage"
	"github.com/haivivi/streamio/pkg/streamutil"
)

var cpCmd = &cobra.Command{
	Use:   "cp <src> <dst>",
	Short: "Copy a stream",
	Long: `Copy a stream between local files, storage contexts and stdio.

The destination is only committed once the whole source has been copied.
If the copy fails midway, the partial destination is discarded.

Examples:
  streamio cp report.pdf media:reports/report.pdf
  streamio cp media:reports/report.pdf home:report.pdf
  tar c dir | streamio cp - media:backups/dir.tar
  streamio cp media:backups/dir.tar - | tar x`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := parseEndpoint(args[0])
		if err != nil {
			return err
		}
		dst, err := parseEndpoint(args[1])
		if err != nil {
			return err
		}

		n, err := copyEndpoints(cmd, src, dst)
		if err != nil {
			return err
		}
		slog.Debug("copy complete", "src", src, "dst", dst, "bytes", n)
		if !dst.stdio {
			cli.PrintVerbose(cmd.ErrOrStderr(), verbose, "copied %s (%d bytes)", cli.FormatSize(n, true), n)
		}
		return nil
	},
}

func copyEndpoints(cmd *cobra.Command, src, dst *endpoint) (int64, error) {
	ctx := cmd.Context()

	// Streaming to stdout: there is nothing to commit or discard, and
	// stdout stays open.
	if dst.stdio {
		r, release, err := src.open(ctx, cmd.InOrStdin())
		if err != nil {
			return 0, fmt.Errorf("%s: %w", src, err)
		}
		defer release()
		return streamutil.Copy(cmd.OutOrStdout(), r, streamutil.WithCloseDestination(false))
	}

	dstFS, dstPath, releaseDst, err := dst.store(true)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", dst, err)
	}
	defer releaseDst()

	if src.stdio {
		return storage.WriteFrom(ctx, dstFS, dstPath, cmd.InOrStdin())
	}

	// A badger database can only be opened once, so a copy within one
	// context shares the store.
	if src.ctx != nil && dst.ctx != nil && src.ctx.Name == dst.ctx.Name {
		return storage.Transfer(ctx, dstFS, src.path, dstFS, dstPath)
	}

	srcFS, srcPath, releaseSrc, err := src.store(false)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src, err)
	}
	defer releaseSrc()
	return storage.Transfer(ctx, srcFS, srcPath, dstFS, dstPath)
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
