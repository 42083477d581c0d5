package config

import (
	"os"
	"path/filepath"
	"sync"

	"emperror.dev/errors"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v2"
)

// DefaultLocation is the default path of the configuration file, relative to
// the calling user's home directory.
const DefaultLocation = ".config/skiff/config.yml"

var (
	mu      sync.RWMutex
	_config *Configuration
)

// Locker specific to writing the configuration to the disk.
var _writeLock sync.Mutex

// ShellConfiguration tunes the interactive shell.
type ShellConfiguration struct {
	// CommandsDirectory is the single directory external commands are looked
	// up in; there is no PATH. Empty means the working directory the shell
	// was started from.
	CommandsDirectory string `json:"commands_directory" yaml:"commands_directory"`

	// Colors toggles prompt coloring.
	Colors bool `default:"true" json:"colors" yaml:"colors"`
}

// Configuration is the top-level on-disk configuration document.
type Configuration struct {
	// The location this configuration instance was read from; not part of
	// the document itself.
	path string

	// Debug enables debug-level logging, which traces every spawned child
	// process; reaping is not logged.
	Debug bool `default:"false" json:"debug" yaml:"debug"`

	Shell ShellConfiguration `json:"shell" yaml:"shell"`
}

// NewAtPath creates a new configuration with default values bound to the
// given location. It does not modify the stored global configuration.
func NewAtPath(path string) (*Configuration, error) {
	var c Configuration
	if err := defaults.Set(&c); err != nil {
		return nil, errors.Wrap(err, "config: could not set default values")
	}
	c.path = path
	return &c, nil
}

// Set replaces the global configuration instance.
func Set(c *Configuration) {
	mu.Lock()
	_config = c
	mu.Unlock()
}

// Get returns a copy of the global configuration, so concurrent writers do
// not race with readers holding the result.
func Get() *Configuration {
	mu.RLock()
	c := *_config
	mu.RUnlock()
	return &c
}

// SetDebugViaFlag merges a command-line debug override into the stored
// configuration.
func SetDebugViaFlag(d bool) {
	mu.Lock()
	_config.Debug = _config.Debug || d
	mu.Unlock()
}

// FromFile reads the configuration at path and stores it globally. A missing
// file is not an error: the defaults stand in until the configuration is
// written for the first time.
func FromFile(path string) error {
	c, err := NewAtPath(path)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			Set(c)
			return nil
		}
		return errors.Wrap(err, "config: could not read configuration file")
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return errors.Wrap(err, "config: could not decode configuration file")
	}

	Set(c)
	return nil
}

// WriteToDisk persists the configuration. Only one write runs at a time.
func (c *Configuration) WriteToDisk() error {
	_writeLock.Lock()
	defer _writeLock.Unlock()

	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "config: could not encode configuration")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrap(err, "config: could not create configuration directory")
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		return errors.Wrap(err, "config: could not write configuration file")
	}
	return nil
}

// Path returns the location this configuration was loaded from.
func (c *Configuration) Path() string {
	return c.path
}
