// Package cli provides the shared pieces of the streamio command line tool.
//
// This package includes:
//   - Configuration management (named storage contexts)
//   - Output formatting (JSON, YAML, raw)
//   - Size formatting
//
// Configuration is stored in ~/.streamio/config.yaml. Each context names a
// storage backend (a local directory, an S3 bucket, or a badger database),
// similar to kubectl contexts.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//	ctx, err := cfg.ResolveContext("")
//
//	cli.Output(result, cli.OutputOptions{Format: cli.FormatJSON})
package cli
