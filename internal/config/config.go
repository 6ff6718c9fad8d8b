// Package config provides configuration file parsing for dirsnap.
package config

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file read from the config directory.
const FileName = "config.yaml"

// Config holds user-tunable defaults. Command-line flags override every
// field here.
type Config struct {
	// PollInterval is how often the tracking loop checks the debouncer,
	// in seconds.
	PollInterval float64 `yaml:"poll_interval"`

	// DebounceWindow is the quiet period after the last change before a
	// snapshot is taken, in seconds.
	DebounceWindow float64 `yaml:"debounce_window"`

	// Backend selects the default snapshot backend when the store does
	// not already record one.
	Backend string `yaml:"backend"`

	// Keep is the default retention spec, e.g. "5" or "24h".
	Keep string `yaml:"keep"`

	// HistoryLimit is how many journal events the history command shows.
	HistoryLimit int `yaml:"history_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PollInterval:   1.0,
		DebounceWindow: 2.0,
		HistoryLimit:   20,
	}
}

// Dir returns the dirsnap config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/dirsnap if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "dirsnap"), nil
}

// Load reads {dir}/config.yaml. A missing file returns the defaults
// without an error; a malformed file is an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// PollDuration returns PollInterval as a duration, falling back to the
// default for zero or negative values.
func (c *Config) PollDuration() time.Duration {
	if c.PollInterval <= 0 {
		return time.Duration(Default().PollInterval * float64(time.Second))
	}
	return time.Duration(c.PollInterval * float64(time.Second))
}

// WindowDuration returns DebounceWindow as a duration, falling back to
// the default for zero or negative values.
func (c *Config) WindowDuration() time.Duration {
	if c.DebounceWindow <= 0 {
		return time.Duration(Default().DebounceWindow * float64(time.Second))
	}
	return time.Duration(c.DebounceWindow * float64(time.Second))
}

// BaseDir returns the root under which per-input version stores are
// created, ~/.dirsnap.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dirsnap"), nil
}

// DefaultStoreRoot derives the store location for an input path. Each
// absolute input maps to a stable directory named by a truncated hash,
// so tracking the same directory twice reuses the same store.
func DefaultStoreRoot(absInput string) (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(absInput))
	return filepath.Join(base, hex.EncodeToString(sum[:])[:12]), nil
}
