package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("default config when file missing", func(t *testing.T) {
		cfg, err := LoadProjectConfig(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.IsStrict() {
			t.Error("expected non-strict load by default")
		}
		if roots := cfg.GetRequiredRoots(); len(roots) != 2 || roots[0] != "object" || roots[1] != "sprite" {
			t.Errorf("expected default roots [object sprite], got %v", roots)
		}
		if !cfg.RewritesEvents() {
			t.Error("expected event rewrite by default")
		}
		if cfg.GetDebounce() != 100*time.Millisecond {
			t.Errorf("expected 100ms debounce, got %v", cfg.GetDebounce())
		}
		if cfg.GetObjectPrefix() != "obj_" {
			t.Errorf("expected prefix obj_, got %q", cfg.GetObjectPrefix())
		}
		if !cfg.IsAutoReindexEnabled() {
			t.Error("expected auto reindex by default")
		}
	})

	t.Run("loads custom config", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := `load:
  strict: true
  required_roots: [object]
save:
  rewrite_events: false
watch:
  debounce_ms: 250
  ignore_dirs: ["/datafiles/", " "]
naming:
  object_prefix: ""
auto_reindex: false
`
		if err := os.WriteFile(filepath.Join(tmpDir, ProjectConfigFile), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadProjectConfig(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.IsStrict() {
			t.Error("expected strict load")
		}
		if roots := cfg.GetRequiredRoots(); len(roots) != 1 || roots[0] != "object" {
			t.Errorf("got roots %v", roots)
		}
		if cfg.RewritesEvents() {
			t.Error("expected rewrite_events=false")
		}
		if cfg.GetDebounce() != 250*time.Millisecond {
			t.Errorf("got debounce %v", cfg.GetDebounce())
		}
		if dirs := cfg.GetIgnoreDirs(); len(dirs) != 1 || dirs[0] != "datafiles" {
			t.Errorf("got ignore dirs %v", dirs)
		}
		if cfg.GetObjectPrefix() != "" {
			t.Errorf("expected empty prefix, got %q", cfg.GetObjectPrefix())
		}
		if cfg.IsAutoReindexEnabled() {
			t.Error("expected auto_reindex=false")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tmpDir, ProjectConfigFile), []byte("load: [unclosed"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadProjectConfig(tmpDir); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestCreateProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	created, err := CreateProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected config to be created")
	}

	created, err = CreateProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected existing config to be left alone")
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("default config should parse: %v", err)
	}
	if !cfg.IsAutoReindexEnabled() {
		t.Error("expected auto_reindex true in default config")
	}
}

func TestSaveProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	prefix := "o_"
	cfg := &ProjectConfig{
		Load:   &LoadConfig{Strict: true},
		Naming: &NamingConfig{ObjectPrefix: &prefix},
	}

	if err := SaveProjectConfig(tmpDir, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.IsStrict() || loaded.GetObjectPrefix() != "o_" {
		t.Errorf("round trip lost settings: %+v", loaded)
	}
}
