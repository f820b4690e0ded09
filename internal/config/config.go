package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/timechunk/internal/store"
)

// Config holds process-level settings read once at startup. Day window and
// interval settings live in the database, not here.
type Config struct {
	// DBPath is the SQLite database file (default ~/.config/timechunk/timechunk.db).
	DBPath string `yaml:"db_path"`

	// Notifications enables terminal notifications (default true).
	Notifications *bool `yaml:"notifications"`

	// LogFile receives debug logs. Empty discards them.
	LogFile string `yaml:"log_file"`
}

// NotificationsEnabled handles the nil-pointer case for the default (true).
func (c *Config) NotificationsEnabled() bool {
	if c.Notifications == nil {
		return true
	}
	return *c.Notifications
}

func (c *Config) applyDefaults() error {
	if c.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolving database path: %w", err)
		}
		c.DBPath = p
	}
	return nil
}

// DefaultPath returns ~/.config/timechunk/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timechunk", "config.yaml"), nil
}

// LoadConfig reads a YAML config file. A missing file yields the defaults;
// a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
