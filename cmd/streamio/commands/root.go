package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
	"github.com/haivivi/streamio/pkg/streamutil"
)

var (
	// Global flags
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "streamio",
	Short: "Measure, print and copy byte streams",
	Long: `streamio - stream utilities over local files, S3 buckets and badger stores.

A path argument is one of:
  -                 stdin (or stdout as a copy destination)
  <context>:<path>  a path inside a configured storage context
  :<path>           a path inside the current context
  anything else     a local file

Configuration is stored in ~/.streamio/config.yaml unless --config is given.
Use 'streamio config' to manage contexts.

Examples:
  # Register an S3 bucket and a local directory
  streamio config add-context media --backend s3 --bucket media --region us-east-1
  streamio config add-context home --backend local --root ~/data

  # Count, print and copy
  streamio len --human media:videos/intro.mp4
  streamio cat --max 1MiB --encoding base64 home:key.bin
  streamio cp home:report.pdf media:reports/report.pdf
  tar c dir | streamio cp - media:backups/dir.tar`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

// Execute runs the root command. An interrupt cancels in-flight reads.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.streamio/config.yaml)")
}

// setupLogging routes library logs to stderr. Warnings are always shown;
// --verbose adds debug records.
func setupLogging(cmd *cobra.Command) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	streamutil.SetLogger(logger)
}

// loadConfig loads the configuration from --config or the default path.
func loadConfig() (*cli.Config, error) {
	return cli.LoadConfigWithPath(configFile)
}
