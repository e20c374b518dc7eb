package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/haivivi/streamio/pkg/cli"
	"github.com/haivivi/streamio/pkg/storage"
	"github.com/haivivi/streamio/pkg/streamutil"
)

const stdioArg = "-"

// defaultS3Region is used for S3 contexts that do not set a region.
const defaultS3Region = "us-east-1"

// endpoint is a parsed path argument.
type endpoint struct {
	arg   string
	stdio bool

	// ctx is set for <context>:<path> arguments.
	ctx *cli.Context

	// path is the store-relative path for contexts and the file path for
	// local files.
	path string
}

// parseEndpoint classifies a path argument. The configuration is only
// loaded for arguments that may name a context.
func parseEndpoint(arg string) (*endpoint, error) {
	if arg == stdioArg {
		return &endpoint{arg: arg, stdio: true}, nil
	}
	name, path, ok := strings.Cut(arg, ":")
	if !ok {
		return &endpoint{arg: arg, path: arg}, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if name != "" {
		if _, known := cfg.Contexts[name]; !known {
			// Not a context name, e.g. a Windows drive letter.
			return &endpoint{arg: arg, path: arg}, nil
		}
	}
	ctx, err := cfg.ResolveContext(name)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%s: missing path after %q", arg, name+":")
	}
	return &endpoint{arg: arg, ctx: ctx, path: path}, nil
}

// String returns the argument the endpoint was parsed from.
func (e *endpoint) String() string {
	return e.arg
}

// store opens the FileStore behind a non-stdio endpoint and the path to use
// inside it. Local files are served by a Local store rooted at their
// directory. For reads, a missing file is reported before the store is
// created, since creating a Local store creates its root.
//
// The returned release func must be called when the store is no longer
// needed.
func (e *endpoint) store(forWrite bool) (storage.FileStore, string, func(), error) {
	if e.stdio {
		return nil, "", nil, errors.New("stdin/stdout is not a store")
	}
	if e.ctx != nil {
		fs, release, err := openContext(e.ctx)
		if err != nil {
			return nil, "", nil, err
		}
		return fs, e.path, release, nil
	}

	abs, err := filepath.Abs(e.path)
	if err != nil {
		return nil, "", nil, err
	}
	if !forWrite {
		if _, err := os.Stat(abs); err != nil {
			return nil, "", nil, err
		}
	}
	fs, err := storage.NewLocal(filepath.Dir(abs))
	if err != nil {
		return nil, "", nil, err
	}
	return fs, filepath.Base(abs), func() {}, nil
}

// open returns a reader for the endpoint. stdin is never closed.
func (e *endpoint) open(ctx context.Context, stdin io.Reader) (io.ReadCloser, func(), error) {
	if e.stdio {
		return io.NopCloser(stdin), func() {}, nil
	}
	fs, path, release, err := e.store(false)
	if err != nil {
		return nil, nil, err
	}
	r, err := fs.Read(ctx, path)
	if err != nil {
		release()
		return nil, nil, err
	}
	return r, release, nil
}

// openContext builds the FileStore a context describes.
func openContext(c *cli.Context) (storage.FileStore, func(), error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	switch c.Backend {
	case cli.BackendLocal:
		fs, err := storage.NewLocal(expandHome(c.Root))
		if err != nil {
			return nil, nil, fmt.Errorf("context %q: %w", c.Name, err)
		}
		return fs, func() {}, nil

	case cli.BackendS3:
		region := c.S3.Region
		if region == "" {
			region = defaultS3Region
		}
		client := storage.NewS3Client(storage.S3Config{
			Region:          region,
			Endpoint:        c.S3.Endpoint,
			AccessKeyID:     c.S3.AccessKey,
			SecretAccessKey: c.S3.SecretKey,
			UsePathStyle:    c.S3.PathStyle,
		})
		return storage.NewS3(client, c.S3.Bucket, c.S3.Prefix), func() {}, nil

	case cli.BackendBadger:
		fs, err := storage.NewBadger(storage.BadgerOptions{
			Dir:      expandHome(c.Root),
			InMemory: c.InMemory,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("context %q: %w", c.Name, err)
		}
		return fs, func() { streamutil.Close(fs) }, nil

	default:
		return nil, nil, fmt.Errorf("context %q: unknown backend %q", c.Name, c.Backend)
	}
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
