package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/streamio/pkg/streamutil"
)

const (
	// DefaultBaseDir is the configuration directory under the home directory.
	DefaultBaseDir = ".streamio"
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"

	// maxConfigSize bounds how much of a config file is read.
	maxConfigSize = 1 << 20
)

// Backend names a storage backend a context points at.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendS3     Backend = "s3"
	BackendBadger Backend = "badger"
)

// Config is the CLI configuration: a set of named storage contexts and the
// one currently in use.
type Config struct {
	// CurrentContext is the name of the currently active context.
	CurrentContext string `json:"current_context,omitempty" yaml:"current_context,omitempty"`

	// Contexts maps context names to their settings.
	Contexts map[string]*Context `json:"contexts,omitempty" yaml:"contexts,omitempty"`

	configPath string
}

// Context is one named storage location.
type Context struct {
	Name    string  `json:"name" yaml:"name"`
	Backend Backend `json:"backend" yaml:"backend"`

	// Root is the root directory for local contexts and the data directory
	// for badger contexts.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// InMemory runs a badger context without persistence.
	InMemory bool `json:"in_memory,omitempty" yaml:"in_memory,omitempty"`

	// S3 holds the bucket settings for s3 contexts.
	S3 *S3Context `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Context holds the connection settings of an S3 context.
type S3Context struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	PathStyle bool   `json:"path_style,omitempty" yaml:"path_style,omitempty"`
}

// Validate checks that the context carries the settings its backend needs.
func (c *Context) Validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.Root == "" {
			return fmt.Errorf("context %q: local backend requires root", c.Name)
		}
	case BackendBadger:
		if c.Root == "" && !c.InMemory {
			return fmt.Errorf("context %q: badger backend requires root or in_memory", c.Name)
		}
	case BackendS3:
		if c.S3 == nil || c.S3.Bucket == "" {
			return fmt.Errorf("context %q: s3 backend requires a bucket", c.Name)
		}
	default:
		return fmt.Errorf("context %q: unknown backend %q", c.Name, c.Backend)
	}
	return nil
}

// LoadConfig loads the configuration from ~/.streamio/config.yaml.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path, or the default
// path if customPath is empty. A missing file yields an empty configuration
// that is created on the first Save.
func LoadConfigWithPath(customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	f, err := os.Open(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data, err := streamutil.ReadAll(f, streamutil.WithMaxBytes(maxConfigSize))
	if err != nil {
		streamutil.Close(f)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	for name, ctx := range cfg.Contexts {
		if ctx == nil {
			return nil, fmt.Errorf("failed to parse config: context %q is empty", name)
		}
		ctx.Name = name
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Save writes the configuration to disk with owner-only permissions, since
// contexts may hold credentials.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// AddContext validates ctx and stores it under name, replacing any
// existing context with that name.
func (c *Config) AddContext(name string, ctx *Context) error {
	if name == "" || strings.ContainsAny(name, ":/") {
		return fmt.Errorf("invalid context name %q", name)
	}
	ctx.Name = name
	if err := ctx.Validate(); err != nil {
		return err
	}
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context.
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// ResolveContext returns the context by name, or the current context if
// name is empty.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		if c.CurrentContext == "" {
			return nil, errors.New("no current context set")
		}
		name = c.CurrentContext
	}
	return c.GetContext(name)
}

// ListContexts returns all context names in sorted order.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MaskSecret masks a credential for display, keeping the first and last
// four characters of long values.
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
