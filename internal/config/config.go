// Package config loads client settings from the XDG config directory,
// the environment and command-line flags, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"taskdeck/internal/logging"
	"taskdeck/internal/view"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// FileName is the config file inside the config directory.
	FileName = "config.toml"

	// DefaultBaseURL is used when no service URL is configured.
	DefaultBaseURL = "http://127.0.0.1:5000"
)

// Config holds client settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// BaseURL is the root URL of the task service.
	BaseURL string `toml:"base_url"`

	// LogLevel and LogFormat configure diagnostics on stderr.
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Sort is the default list order: asc or desc.
	Sort string `toml:"sort"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	// Logger is set by the dispatcher. Nil means discard.
	Logger *log.Logger `toml:"-"`
}

// New creates a Config with defaults and the given or default directory.
// Nothing is read from disk.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		BaseURL:   DefaultBaseURL,
		LogLevel:  "warn",
		LogFormat: "text",
		Sort:      "asc",
	}, nil
}

// Load creates a Config for configDir, decodes its config.toml if present
// and applies environment overrides.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(cfg.Path()); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the config file path.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, FileName)
}

// EnsureDir creates the config directory if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

// Save writes the file-backed settings to Path.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(c.Path(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if _, err := c.SortDirection(); err != nil {
		return fmt.Errorf("%s: %w", c.Path(), err)
	}
	return nil
}

// SortDirection returns the configured default sort.
func (c *Config) SortDirection() (view.Direction, error) {
	return view.ParseDirection(c.Sort)
}

// Log returns the configured logger.
func (c *Config) Log() *log.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}

func (c *Config) loadFile(path string) error {
	_, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TASKDECK_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("TASKDECK_SORT"); v != "" {
		c.Sort = v
	}
}
