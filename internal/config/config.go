// Package config handles persistent configuration for ansible-audit.
//
// Configuration is stored as JSON at ~/.config/ansible-audit/config.json (or
// the platform-equivalent path returned by os.UserConfigDir). The
// ANSIBLE_LOG_DIR environment variable takes precedence over the stored
// log directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDir   = "ansible-audit"
	fileName = "config.json"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// EnvLogDir names the environment variable overriding the local log directory.
const EnvLogDir = "ANSIBLE_LOG_DIR"

const (
	defaultLogDir     = "/var/log/ansible_audit"
	defaultRemoteDir  = "/var/log/ansible_audit"
	defaultAnsibleBin = "ansible"
)

// Config holds settings that persist across invocations.
type Config struct {
	LogDir     string `json:"log_dir,omitempty"`
	RemoteDir  string `json:"remote_dir,omitempty"`
	AnsibleBin string `json:"ansible_bin,omitempty"`
}

// Settings are the effective values after applying the environment and
// defaults to a Config.
type Settings struct {
	LogDir     string
	RemoteDir  string
	AnsibleBin string

	// LogDirDefaulted is true when neither ANSIBLE_LOG_DIR nor the config
	// file named a log directory.
	LogDirDefaulted bool
}

// Resolve computes the effective settings. getenv is usually os.Getenv.
func (c *Config) Resolve(getenv func(string) string) Settings {
	s := Settings{
		LogDir:     c.LogDir,
		RemoteDir:  pick(c.RemoteDir, defaultRemoteDir),
		AnsibleBin: pick(c.AnsibleBin, defaultAnsibleBin),
	}
	if env := getenv(EnvLogDir); env != "" {
		s.LogDir = env
	}
	if s.LogDir == "" {
		s.LogDir = defaultLogDir
		s.LogDirDefaulted = true
	}
	return s
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

// loadFrom reads the config from the given path. If path is empty, the
// default Path() is used. Exported only for testing via LoadFrom.
func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

// saveTo writes the config to the given path. If path is empty, the
// default Path() is used.
func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}

// LoadSettings loads the config file and resolves it against the process
// environment.
func LoadSettings() (Settings, error) {
	cfg, err := Load()
	if err != nil {
		return Settings{}, err
	}
	return cfg.Resolve(os.Getenv), nil
}
