package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/cmd/streamio/internal/build"
	"github.com/haivivi/streamio/pkg/cli"
)

var versionOutput string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionOutput != "" {
			format, err := cli.ParseOutputFormat(versionOutput)
			if err != nil {
				return err
			}
			return cli.Output(build.Get(), cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, build.String())
		if verbose {
			fmt.Fprintf(out, "  go:     %s\n", build.Get().Go)
			if cfg, err := loadConfig(); err == nil {
				fmt.Fprintf(out, "  config: %s\n", cfg.Path())
			} else {
				fmt.Fprintf(out, "  config: (unavailable: %v)\n", err)
			}
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "", "output format: yaml or json")
	rootCmd.AddCommand(versionCmd)
}
