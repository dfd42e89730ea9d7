// Package config handles global gmedit configuration and per-project settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/gmedit/internal/atomicfile"
)

var (
	// ErrNoDefaultProject means no project was named and default_project is unset.
	ErrNoDefaultProject = errors.New("no default project configured")
	// ErrUnknownProject means a project name is missing from [projects].
	ErrUnknownProject = errors.New("project not found in config")
)

// Config represents the global gmedit configuration.
type Config struct {
	// DefaultProject is the name of the default project (from Projects map).
	DefaultProject string `toml:"default_project"`

	// StateFile overrides where machine-local state is kept.
	StateFile string `toml:"state_file"`

	// Projects is a map of project names to project directories or .yyp paths.
	Projects map[string]string `toml:"projects"`

	// LogLevel is the minimum level for diagnostic logging: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// GetProjectPath returns the path for a named project.
// If name is empty, returns the default project path.
func (c *Config) GetProjectPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultProject
	}
	if name == "" {
		return "", ErrNoDefaultProject
	}
	if path, ok := c.Projects[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownProject, name)
}

// ProjectNames returns the configured project names, sorted.
func (c *Config) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load loads the configuration from DefaultPath.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path.
// A missing file yields a default config.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/gmedit/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "gmedit", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "gmedit", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault(configPath string) (string, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# gmedit configuration

# Default project name (must exist in [projects] below)
# default_project = "platformer"

# Named projects: a directory holding a .yyp, or the .yyp itself
# [projects]
# platformer = "/path/to/Platformer"

# Diagnostic log level: debug, info, warn, error
# log_level = "warn"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
