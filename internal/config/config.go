package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// TimersFile is the name of the flat file holding all persisted timers.
const TimersFile = "pomo_timers.txt"

// Config holds user settings shared by the store, timers and notifiers.
// It is loaded once at startup and passed by reference; the store treats
// it as opaque and only forwards it to timer deserialization.
type Config struct {
	// DefaultDuration is used when a timer is started without an explicit one.
	DefaultDuration time.Duration

	// UpdateInterval is the watch-loop tick period.
	UpdateInterval time.Duration

	// Notifiers lists notifier names to fire for timer events ("log", "command").
	Notifiers []string

	// NotifyCommand is the external command run by the "command" notifier.
	// The timer name and the event are appended as arguments.
	NotifyCommand string

	// DataDir overrides the state directory. Empty means the default
	// (~/.pomo). Set to "-" to disable persistence entirely.
	DataDir string
}

// rawConfig is the yaml shape; durations are strings ("25m") so the file
// stays human-editable.
type rawConfig struct {
	DefaultDuration string   `yaml:"default_duration,omitempty"`
	UpdateInterval  string   `yaml:"update_interval,omitempty"`
	Notifiers       []string `yaml:"notifiers,omitempty"`
	NotifyCommand   string   `yaml:"notify_command,omitempty"`
	DataDir         string   `yaml:"data_dir,omitempty"`
}

// UnmarshalYAML decodes over the existing values, so unset keys keep their
// defaults.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var r rawConfig
	if err := value.Decode(&r); err != nil {
		return err
	}
	if r.DefaultDuration != "" {
		d, err := time.ParseDuration(r.DefaultDuration)
		if err != nil {
			return fmt.Errorf("default_duration: %w", err)
		}
		c.DefaultDuration = d
	}
	if r.UpdateInterval != "" {
		d, err := time.ParseDuration(r.UpdateInterval)
		if err != nil {
			return fmt.Errorf("update_interval: %w", err)
		}
		c.UpdateInterval = d
	}
	if r.Notifiers != nil {
		c.Notifiers = r.Notifiers
	}
	if r.NotifyCommand != "" {
		c.NotifyCommand = r.NotifyCommand
	}
	if r.DataDir != "" {
		c.DataDir = r.DataDir
	}
	return nil
}

func (c *Config) MarshalYAML() (any, error) {
	return rawConfig{
		DefaultDuration: c.DefaultDuration.String(),
		UpdateInterval:  c.UpdateInterval.String(),
		Notifiers:       c.Notifiers,
		NotifyCommand:   c.NotifyCommand,
		DataDir:         c.DataDir,
	}, nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DefaultDuration: 25 * time.Minute,
		UpdateInterval:  time.Second,
		Notifiers:       []string{"log"},
	}
}

// Load reads settings from path, falling back to defaults when the file is
// missing. A present-but-unreadable file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the settings back to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// StateDir resolves the directory holding the timers file and config.
// Returns "" when no directory can be resolved or persistence is disabled;
// callers then run memory-only.
func (c *Config) StateDir() string {
	if c.DataDir == "-" {
		return ""
	}
	if c.DataDir != "" {
		return c.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pomo")
}

// TimersPath resolves the backing file path, or "" when persistence is off.
func (c *Config) TimersPath() string {
	dir := c.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, TimersFile)
}
