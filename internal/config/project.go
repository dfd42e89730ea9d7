package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/gmedit/internal/atomicfile"
)

// ProjectConfigFile is the name of the per-project settings file, kept beside the .yyp.
const ProjectConfigFile = "gmedit.yaml"

// ProjectConfig represents project-level configuration from gmedit.yaml.
type ProjectConfig struct {
	// Load controls how the project file is read.
	Load *LoadConfig `yaml:"load,omitempty"`

	// Save controls how editors write companion files.
	Save *SaveConfig `yaml:"save,omitempty"`

	// Watch configures 'gme watch'.
	Watch *WatchConfig `yaml:"watch,omitempty"`

	// Naming configures names generated by 'gme new'.
	Naming *NamingConfig `yaml:"naming,omitempty"`

	// AutoReindex refreshes the index after CLI operations that modify files (default: true)
	AutoReindex *bool `yaml:"auto_reindex,omitempty"`
}

// LoadConfig controls project loading.
type LoadConfig struct {
	// Strict aborts the load on the first resource that fails to parse.
	// By default bad resources are skipped and reported.
	Strict bool `yaml:"strict,omitempty"`

	// RequiredRoots lists kinds whose folder root must exist when the project has
	// resources of that kind (default: object, sprite).
	RequiredRoots []string `yaml:"required_roots,omitempty"`
}

// SaveConfig controls editor saves.
type SaveConfig struct {
	// RewriteEvents writes every event script on object save, edited or not
	// (default: true). Unedited scripts are rewritten with their original bytes.
	RewriteEvents *bool `yaml:"rewrite_events,omitempty"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	// DebounceMS is how long to wait for more changes before reloading (default: 100).
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	// IgnoreDirs are additional directory names the watcher skips.
	IgnoreDirs []string `yaml:"ignore_dirs,omitempty"`
}

// NamingConfig configures generated resource names.
type NamingConfig struct {
	// ObjectPrefix is prepended to new object names (default: "obj_").
	ObjectPrefix *string `yaml:"object_prefix,omitempty"`
}

// DefaultProjectConfig returns the configuration used when gmedit.yaml is absent.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{}
}

// LoadProjectConfig loads gmedit.yaml from the project root.
// Returns a default config if the file doesn't exist.
func LoadProjectConfig(projectRoot string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectRoot, ProjectConfigFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultProjectConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ProjectConfigFile, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectConfigFile, err)
	}
	return &cfg, nil
}

// SaveProjectConfig writes the project config back to gmedit.yaml.
func SaveProjectConfig(projectRoot string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(filepath.Join(projectRoot, ProjectConfigFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ProjectConfigFile, err)
	}
	return nil
}

// CreateProjectConfig writes a commented gmedit.yaml if none exists.
// Returns true when a file was created.
func CreateProjectConfig(projectRoot string) (bool, error) {
	configPath := filepath.Join(projectRoot, ProjectConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# gmedit project settings

# load:
#   strict: false               # abort on the first resource that fails to parse
#   required_roots: [object, sprite]

# save:
#   rewrite_events: true        # rewrite every event script on object save

# watch:
#   debounce_ms: 100
#   ignore_dirs: [datafiles]

# naming:
#   object_prefix: obj_

auto_reindex: true
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", ProjectConfigFile, err)
	}
	return true, nil
}

// IsStrict reports whether loading aborts on the first bad resource.
func (pc *ProjectConfig) IsStrict() bool {
	return pc.Load != nil && pc.Load.Strict
}

// GetRequiredRoots returns the kinds, as written in config, that need a folder root.
func (pc *ProjectConfig) GetRequiredRoots() []string {
	if pc.Load == nil || pc.Load.RequiredRoots == nil {
		return []string{"object", "sprite"}
	}
	return pc.Load.RequiredRoots
}

// RewritesEvents reports whether object saves rewrite unedited event scripts.
func (pc *ProjectConfig) RewritesEvents() bool {
	if pc.Save == nil || pc.Save.RewriteEvents == nil {
		return true
	}
	return *pc.Save.RewriteEvents
}

// GetDebounce returns the watcher debounce interval.
func (pc *ProjectConfig) GetDebounce() time.Duration {
	if pc.Watch == nil || pc.Watch.DebounceMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(pc.Watch.DebounceMS) * time.Millisecond
}

// GetIgnoreDirs returns the extra directory names the watcher skips.
func (pc *ProjectConfig) GetIgnoreDirs() []string {
	if pc.Watch == nil {
		return nil
	}
	out := make([]string, 0, len(pc.Watch.IgnoreDirs))
	for _, d := range pc.Watch.IgnoreDirs {
		if d = strings.Trim(strings.TrimSpace(d), "/"); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// GetObjectPrefix returns the prefix for new object names.
func (pc *ProjectConfig) GetObjectPrefix() string {
	if pc.Naming == nil || pc.Naming.ObjectPrefix == nil {
		return "obj_"
	}
	return *pc.Naming.ObjectPrefix
}

// IsAutoReindexEnabled returns whether auto-reindexing is enabled (default: true).
func (pc *ProjectConfig) IsAutoReindexEnabled() bool {
	if pc.AutoReindex == nil {
		return true
	}
	return *pc.AutoReindex
}
