package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/layout"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Layout != layout.DefaultOptions() {
		t.Errorf("expected stock layout, got %+v", cfg.Layout)
	}
	if cfg.Drag.HitPadding != 8 {
		t.Errorf("expected hit padding 8, got %v", cfg.Drag.HitPadding)
	}
	if cfg.History.Limit != 0 {
		t.Errorf("expected unlimited history, got %d", cfg.History.Limit)
	}
	if !cfg.UI.MouseEnabled() {
		t.Error("expected mouse enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Export.Format != "svg" {
		t.Errorf("expected default config, got format %q", cfg.Export.Format)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
layout:
  horizontal_gap: 80
  vertical_spacing: 10
drag:
  hit_padding: 12
history:
  limit: 50
ui:
  theme: dark
  mouse: false
export:
  format: png
  preset: compact
  dir: ~/maps
watch:
  debounce: 500ms
  force_poll: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Layout.HorizontalGap != 80 || cfg.Layout.VerticalSpacing != 10 {
		t.Errorf("layout gaps = %v/%v", cfg.Layout.HorizontalGap, cfg.Layout.VerticalSpacing)
	}
	// Keys left out keep their defaults.
	if cfg.Layout.MaxNodeWidth != 400 {
		t.Errorf("max node width = %v, want default 400", cfg.Layout.MaxNodeWidth)
	}
	if cfg.Drag.HitPadding != 12 || cfg.History.Limit != 50 {
		t.Errorf("drag/history = %+v %+v", cfg.Drag, cfg.History)
	}
	if cfg.UI.Theme != "dark" || cfg.UI.MouseEnabled() {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond || !cfg.Watch.ForcePoll {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "maps"); cfg.Export.Dir != want {
		t.Errorf("export dir = %q, want %q", cfg.Export.Dir, want)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("layout: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"min above max", func(c *Config) { c.Layout.MinNodeWidth = 500 }, "min_node_width"},
		{"zero height", func(c *Config) { c.Layout.MinNodeHeight = 0 }, "min_node_height"},
		{"negative gap", func(c *Config) { c.Layout.HorizontalGap = -1 }, "gaps"},
		{"negative padding", func(c *Config) { c.Drag.HitPadding = -2 }, "hit_padding"},
		{"negative limit", func(c *Config) { c.History.Limit = -1 }, "limit"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "theme"},
		{"bad format", func(c *Config) { c.Export.Format = "gif" }, "format"},
		{"bad preset", func(c *Config) { c.Export.Preset = "huge" }, "preset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.History.Limit = 25
	cfg.UI.Theme = "light"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.History.Limit != 25 || loaded.UI.Theme != "light" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestConfigPathEnvOverride(t *testing.T) {
	t.Setenv("MINDMAP_CONFIG", "/tmp/custom.yaml")
	if got := ConfigPath(); got != "/tmp/custom.yaml" {
		t.Errorf("ConfigPath = %q", got)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("MINDMAP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigDir(); got != filepath.Join("/xdg", "mindmap") {
		t.Errorf("ConfigDir = %q", got)
	}
	if got := ConfigPath(); got != filepath.Join("/xdg", "mindmap", "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}
}
