package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/gmedit/internal/atomicfile"
)

// StateVersion is the current state file schema version.
const StateVersion = 1

// maxRecentProjects bounds State.RecentProjects.
const maxRecentProjects = 8

// State is machine-local data gme changes on its own, kept apart from the
// hand-edited config.toml.
type State struct {
	Version        int      `toml:"version"`
	ActiveProject  string   `toml:"active_project,omitempty"`
	RecentProjects []string `toml:"recent_projects,omitempty"`
}

// UseProject makes name the active project and moves it to the front of the
// recent list.
func (s *State) UseProject(name string) {
	name = strings.TrimSpace(name)
	s.ActiveProject = name
	if name == "" {
		return
	}
	s.RecentProjects = slices.DeleteFunc(s.RecentProjects, func(n string) bool { return n == name })
	s.RecentProjects = slices.Insert(s.RecentProjects, 0, name)
	if len(s.RecentProjects) > maxRecentProjects {
		s.RecentProjects = s.RecentProjects[:maxRecentProjects]
	}
}

func (s *State) normalize() {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	s.ActiveProject = strings.TrimSpace(s.ActiveProject)
	recent := s.RecentProjects[:0:0]
	for _, n := range s.RecentProjects {
		if n = strings.TrimSpace(n); n != "" && !slices.Contains(recent, n) {
			recent = append(recent, n)
		}
	}
	s.RecentProjects = recent
}

// ResolveConfigPath returns the explicit config path, or the default one.
func ResolveConfigPath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return DefaultPath()
}

// ResolveStatePath picks state.toml: the --state flag, then state_file in
// config.toml (relative to the config directory), then a sibling of
// config.toml.
func ResolveStatePath(explicit, configPath string, cfg *Config) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	dir := filepath.Dir(ResolveConfigPath(configPath))
	if cfg == nil || strings.TrimSpace(cfg.StateFile) == "" {
		return filepath.Join(dir, "state.toml")
	}

	p := strings.TrimSpace(cfg.StateFile)
	// A leading slash counts as absolute on every OS so one config.toml can be
	// shared between machines.
	if filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/") {
		return filepath.Clean(filepath.FromSlash(p))
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

// LoadState reads state.toml. A missing file yields an empty state.
func LoadState(path string) (*State, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state path is required")
	}

	state := &State{}
	if _, err := toml.DecodeFile(path, state); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
		}
	}
	state.normalize()
	return state, nil
}

// SaveState writes state.toml atomically, creating its directory.
func SaveState(path string, state *State) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("state path is required")
	}
	out := State{}
	if state != nil {
		out = *state
	}
	out.normalize()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write state %s: %w", path, err)
	}
	return nil
}
