package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigGetProjectPath(t *testing.T) {
	cfg := &Config{
		DefaultProject: "platformer",
		Projects: map[string]string{
			"platformer": "/games/Platformer",
			"shooter":    "/games/Shooter/Shooter.yyp",
		},
	}

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "shooter", want: "/games/Shooter/Shooter.yyp"},
		{name: "", want: "/games/Platformer"},
		{name: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := cfg.GetProjectPath(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path != tt.want {
				t.Errorf("got %q, want %q", path, tt.want)
			}
		})
	}

	t.Run("no default configured", func(t *testing.T) {
		empty := &Config{}
		if _, err := empty.GetProjectPath(""); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestProjectNames(t *testing.T) {
	cfg := &Config{Projects: map[string]string{"b": "/b", "a": "/a"}}
	names := cfg.ProjectNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("got %v, want [a b]", names)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DefaultProject != "" || len(cfg.Projects) != 0 {
			t.Errorf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("parses toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `default_project = "shooter"
log_level = "info"

[projects]
shooter = "/games/Shooter"

[ui]
accent = "#ff8800"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DefaultProject != "shooter" || cfg.Projects["shooter"] != "/games/Shooter" {
			t.Errorf("got %+v", cfg)
		}
		if cfg.UI.Accent != "#ff8800" || cfg.LogLevel != "info" {
			t.Errorf("got ui %+v log level %q", cfg.UI, cfg.LogLevel)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("default_project = "), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmedit", "config.toml")
	got, err := CreateDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[projects]") {
		t.Errorf("expected projects section in default config, got:\n%s", data)
	}
	if _, err := LoadFrom(path); err != nil {
		t.Errorf("default config should parse: %v", err)
	}
}
