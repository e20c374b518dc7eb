package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the streamio directory structure under a home directory.
type Paths struct {
	// HomeDir is the user's home directory.
	HomeDir string
}

// NewPaths creates a Paths rooted at the current user's home directory.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.streamio).
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.streamio/config.yaml).
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// DataDir returns the directory for badger contexts created without an
// explicit root (~/.streamio/data/<name>).
func (p *Paths) DataDir(name string) string {
	return filepath.Join(p.BaseDir(), "data", name)
}
