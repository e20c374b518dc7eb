package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage storage contexts",
	Long: `Manage storage contexts.

A context is a named storage location: a local directory, an S3 bucket
(optionally under a key prefix), or a badger database. Paths written as
<context>:<path> are resolved against it.

Examples:
  streamio config list
  streamio config add-context home --backend local --root ~/data
  streamio config add-context minio --backend s3 --bucket media \
      --endpoint http://localhost:9000 --path-style --access-key minio --secret-key minio123
  streamio config add-context cache --backend badger
  streamio config use-context home
  streamio config delete-context cache`,
}

// addContextFlags holds the flags of `config add-context`.
var addContextFlags struct {
	backend   string
	root      string
	inMemory  bool
	bucket    string
	prefix    string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	pathStyle bool
	use       bool
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create or replace a context",
	Long: `Create or replace a context.

Badger contexts without --root or --in-memory store their data under
~/.streamio/data/<name>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := args[0]
		f := addContextFlags

		ctx := &cli.Context{
			Backend:  cli.Backend(f.backend),
			Root:     f.root,
			InMemory: f.inMemory,
		}
		switch ctx.Backend {
		case cli.BackendS3:
			ctx.S3 = &cli.S3Context{
				Bucket:    f.bucket,
				Prefix:    f.prefix,
				Region:    f.region,
				Endpoint:  f.endpoint,
				AccessKey: f.accessKey,
				SecretKey: f.secretKey,
				PathStyle: f.pathStyle,
			}
		case cli.BackendBadger:
			if ctx.Root == "" && !ctx.InMemory {
				paths, err := cli.NewPaths()
				if err != nil {
					return err
				}
				ctx.Root = paths.DataDir(name)
			}
		}

		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}
		if f.use || cfg.CurrentContext == "" {
			if err := cfg.UseContext(name); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Context %q saved.\n", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q.\n", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Long:  `Delete a context from the configuration. Stored data is left untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Context %q deleted.\n", args[0])
		return nil
	},
}

var configListOutput string

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		out := cmd.OutOrStdout()

		if configListOutput != "" {
			format, err := cli.ParseOutputFormat(configListOutput)
			if err != nil {
				return err
			}
			contexts := make([]cli.Context, 0, len(names))
			for _, name := range names {
				contexts = append(contexts, maskedContext(cfg.Contexts[name]))
			}
			return cli.Output(contexts, cli.OutputOptions{Format: format, Writer: out})
		}

		if len(names) == 0 {
			fmt.Fprintln(out, "No contexts configured.")
			fmt.Fprintln(out, "Create one with: streamio config add-context <name> --backend local --root <dir>")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tBACKEND\tLOCATION")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			ctx := cfg.Contexts[name]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, ctx.Backend, location(ctx))
		}
		return w.Flush()
	},
}

// location describes where a context stores its data.
func location(c *cli.Context) string {
	switch {
	case c.Backend == cli.BackendS3 && c.S3 != nil:
		loc := "s3://" + c.S3.Bucket
		if c.S3.Prefix != "" {
			loc += "/" + c.S3.Prefix
		}
		if c.S3.Endpoint != "" {
			loc += " (" + c.S3.Endpoint + ")"
		}
		return loc
	case c.InMemory:
		return "(in memory)"
	default:
		return c.Root
	}
}

// maskedContext returns a copy of c with its credentials masked.
func maskedContext(c *cli.Context) cli.Context {
	out := *c
	if c.S3 != nil {
		s3 := *c.S3
		s3.AccessKey = cli.MaskSecret(s3.AccessKey)
		s3.SecretKey = cli.MaskSecret(s3.SecretKey)
		out.S3 = &s3
	}
	return out
}

func init() {
	f := configAddContextCmd.Flags()
	f.StringVar(&addContextFlags.backend, "backend", string(cli.BackendLocal), "storage backend: local, s3 or badger")
	f.StringVar(&addContextFlags.root, "root", "", "root directory (local) or data directory (badger)")
	f.BoolVar(&addContextFlags.inMemory, "in-memory", false, "badger: keep data in memory only")
	f.StringVar(&addContextFlags.bucket, "bucket", "", "s3: bucket name")
	f.StringVar(&addContextFlags.prefix, "prefix", "", "s3: key prefix")
	f.StringVar(&addContextFlags.region, "region", "", "s3: region (default "+defaultS3Region+")")
	f.StringVar(&addContextFlags.endpoint, "endpoint", "", "s3: custom endpoint for S3-compatible stores")
	f.StringVar(&addContextFlags.accessKey, "access-key", "", "s3: access key ID")
	f.StringVar(&addContextFlags.secretKey, "secret-key", "", "s3: secret access key")
	f.BoolVar(&addContextFlags.pathStyle, "path-style", false, "s3: use path-style addressing")
	f.BoolVar(&addContextFlags.use, "use", false, "switch to the context after saving it")

	configListCmd.Flags().StringVarP(&configListOutput, "output", "o", "", "output format: yaml or json (default table)")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
