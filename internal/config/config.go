// Package config resolves settings for the browsetrace agent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the agent's runtime settings. All fields have working
// defaults; a config file only needs to name what it overrides.
type Config struct {
	// ListenAddr is the host:port the HTTP service binds. The service is
	// meant for loopback use only.
	ListenAddr string `yaml:"listen_addr"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	ReadTimeout   Duration `yaml:"read_timeout"`
	WriteTimeout  Duration `yaml:"write_timeout"`
	ShutdownGrace Duration `yaml:"shutdown_grace"`
}

// Duration wraps time.Duration with YAML decoding from strings like "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration: loopback on port 8089, the
// database under ~/.browsetrace.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ListenAddr:    "127.0.0.1:8089",
		DBPath:        filepath.Join(home, ".browsetrace", "events.db"),
		ReadTimeout:   Duration(5 * time.Second),
		WriteTimeout:  Duration(5 * time.Second),
		ShutdownGrace: Duration(30 * time.Second),
	}
}

// Load reads a YAML config file and overlays it on the defaults.
// A missing file is not an error when path is empty; an explicit path that
// does not exist is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownGrace <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}
