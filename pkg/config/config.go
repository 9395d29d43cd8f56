// Package config handles loading and saving mindmap configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mindmap/config.yaml
//   - State:   ~/.local/state/mindmap/ (debug logs)
//
// MINDMAP_CONFIG points at an alternative config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/mindmap/pkg/layout"
)

const appName = "mindmap"

// DragConfig tunes drag and drop.
type DragConfig struct {
	HitPadding float64 `yaml:"hit_padding,omitempty"` // world units added around every drop target
}

// HistoryConfig tunes undo.
type HistoryConfig struct {
	Limit int `yaml:"limit,omitempty"` // max undo depth, 0 = unlimited
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	Theme    string `yaml:"theme,omitempty"`     // light, dark, auto
	Mouse    *bool  `yaml:"mouse,omitempty"`     // mouse drag support (default on)
	ShowHelp bool   `yaml:"show_help,omitempty"` // open with the help overlay
}

// MouseEnabled reports whether mouse support is on.
func (u UIConfig) MouseEnabled() bool {
	return u.Mouse == nil || *u.Mouse
}

// ExportConfig holds defaults for snapshot export.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg, png
	Preset string `yaml:"preset,omitempty"` // compact, roomy
	Dir    string `yaml:"dir,omitempty"`    // default output directory
}

// WatchConfig tunes `render --watch`.
type WatchConfig struct {
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Layout  layout.Options `yaml:"layout"`
	Drag    DragConfig     `yaml:"drag,omitempty"`
	History HistoryConfig  `yaml:"history,omitempty"`
	UI      UIConfig       `yaml:"ui,omitempty"`
	Export  ExportConfig   `yaml:"export,omitempty"`
	Watch   WatchConfig    `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		Drag:   DragConfig{HitPadding: 8},
		UI:     UIConfig{Theme: "auto"},
		Export: ExportConfig{Format: "svg", Preset: "roomy"},
		Watch: WatchConfig{
			Debounce:     200 * time.Millisecond,
			PollInterval: 2 * time.Second,
		},
	}
}

// ConfigDir returns the XDG config directory for mindmap.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for mindmap.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the config file path: MINDMAP_CONFIG if set, otherwise
// config.yaml in ConfigDir.
func ConfigPath() string {
	if p := os.Getenv("MINDMAP_CONFIG"); p != "" {
		return expandHome(p)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config from ConfigPath.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing keys keep their
// defaults; a missing file yields DefaultConfig.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	return cfg, nil
}

// Save writes the config to ConfigPath.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LayoutOptions returns the configured spacing, or the stock spacing when
// the layout section is empty.
func (c Config) LayoutOptions() layout.Options {
	if c.Layout == (layout.Options{}) {
		return layout.DefaultOptions()
	}
	return c.Layout
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	l := c.Layout
	if l.MinNodeWidth <= 0 || l.MaxNodeWidth < l.MinNodeWidth {
		errs = append(errs, fmt.Errorf("layout: need 0 < min_node_width <= max_node_width, got %v and %v", l.MinNodeWidth, l.MaxNodeWidth))
	}
	if l.MinNodeHeight <= 0 {
		errs = append(errs, fmt.Errorf("layout: min_node_height must be positive, got %v", l.MinNodeHeight))
	}
	if l.HorizontalGap < 0 || l.VerticalSpacing < 0 {
		errs = append(errs, errors.New("layout: gaps must not be negative"))
	}
	if c.Drag.HitPadding < 0 {
		errs = append(errs, fmt.Errorf("drag: hit_padding must not be negative, got %v", c.Drag.HitPadding))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history: limit must not be negative, got %d", c.History.Limit))
	}
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("ui: unknown theme %q", c.UI.Theme))
	}
	switch strings.ToLower(c.Export.Format) {
	case "", "svg", "png":
	default:
		errs = append(errs, fmt.Errorf("export: unknown format %q", c.Export.Format))
	}
	switch c.Export.Preset {
	case "", "compact", "roomy":
	default:
		errs = append(errs, fmt.Errorf("export: unknown preset %q", c.Export.Preset))
	}
	return errors.Join(errs...)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
