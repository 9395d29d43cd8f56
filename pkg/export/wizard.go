package export

// Interactive export wizard for `mindmap export`.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/layout"
)

// WizardConfig holds the answers of one wizard run. It is remembered between
// runs so the next export can reuse it.
type WizardConfig struct {
	Path    string   `json:"path"`    // output path without extension
	Formats []string `json:"formats"` // svg, png
	Preset  string   `json:"preset"`
	Theme   string   `json:"theme"`
	Title   string   `json:"title,omitempty"`
}

// Targets returns one batch target per chosen format.
func (c WizardConfig) Targets() []Target {
	base := strings.TrimSuffix(c.Path, filepath.Ext(c.Path))
	out := make([]Target, 0, len(c.Formats))
	for _, f := range c.Formats {
		out = append(out, Target{Path: base + "." + f, Format: f})
	}
	return out
}

// Options returns the snapshot options shared by every target.
func (c WizardConfig) Options(base Options) Options {
	base.Preset = c.Preset
	base.Theme = c.Theme
	base.Title = c.Title
	return base
}

// Validate checks the answers before anything is rendered.
func (c WizardConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Path) == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("pick at least one format"))
	}
	for _, f := range c.Formats {
		if f != "svg" && f != "png" {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnsupportedFormat, f))
		}
	}
	if _, err := PresetOptions(layout.Options{}, c.Preset); err != nil {
		errs = append(errs, err)
	}
	if _, err := paletteFor(c.Theme); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Wizard walks the user through an export.
type Wizard struct {
	config   WizardConfig
	out      io.Writer
	savePath string
}

// NewWizard seeds the wizard from cfg's export defaults.
func NewWizard(cfg config.Config, out io.Writer) *Wizard {
	dir := cfg.Export.Dir
	if dir == "" {
		dir = "."
	}
	format := cfg.Export.Format
	if format == "" {
		format = "svg"
	}
	theme := cfg.UI.Theme
	if theme == "auto" {
		theme = "light"
	}
	return &Wizard{
		config: WizardConfig{
			Path:    filepath.Join(dir, "mindmap"),
			Formats: []string{format},
			Preset:  cfg.Export.Preset,
			Theme:   theme,
		},
		out:      out,
		savePath: WizardConfigPath(),
	}
}

// Config returns the current answers.
func (w *Wizard) Config() WizardConfig { return w.config }

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm falls back to accessible prompts when stdin is not a terminal.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks for the export settings, offering the previous run's answers
// first. The answers are saved for next time.
func (w *Wizard) Run() (WizardConfig, error) {
	fmt.Fprintln(w.out, "mindmap export")
	fmt.Fprintln(w.out, "Press Ctrl+C anytime to cancel")
	fmt.Fprintln(w.out)

	if saved, err := LoadWizardConfigFrom(w.savePath); err == nil && saved != nil {
		reuse, err := w.offerSaved(*saved)
		if err != nil {
			return WizardConfig{}, err
		}
		if reuse {
			w.config = *saved
			return w.config, w.config.Validate()
		}
	}

	if err := w.collect(); err != nil {
		return WizardConfig{}, err
	}
	if err := w.config.Validate(); err != nil {
		return WizardConfig{}, err
	}
	if err := SaveWizardConfigTo(w.savePath, w.config); err != nil {
		fmt.Fprintf(w.out, "warning: could not remember settings: %v\n", err)
	}
	return w.config, nil
}

func (w *Wizard) offerSaved(saved WizardConfig) (bool, error) {
	fmt.Fprintln(w.out, "Previous export:")
	fmt.Fprintf(w.out, "  Path:    %s\n", saved.Path)
	fmt.Fprintf(w.out, "  Formats: %s\n", strings.Join(saved.Formats, ", "))
	fmt.Fprintf(w.out, "  Preset:  %s\n", saved.Preset)
	fmt.Fprintln(w.out)

	reuse := true
	form := newForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Export again with these settings?").
			Value(&reuse).
			Affirmative("Yes").
			Negative("No, reconfigure"),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return reuse, nil
}

func (w *Wizard) collect() error {
	c := &w.config
	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output path").
				Description("Extension is added per format").
				Value(&c.Path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("path is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Formats").
				Options(
					huh.NewOption("SVG", "svg"),
					huh.NewOption("PNG", "png"),
				).
				Value(&c.Formats),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Spacing").
				Options(
					huh.NewOption("Roomy", "roomy"),
					huh.NewOption("Compact", "compact"),
				).
				Value(&c.Preset),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Light", "light"),
					huh.NewOption("Dark", "dark"),
				).
				Value(&c.Theme),
			huh.NewInput().
				Title("Title (optional)").
				Value(&c.Title),
		),
	)
	return form.Run()
}

// WizardConfigPath returns where wizard answers are remembered.
func WizardConfigPath() string {
	dir := config.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "export-wizard.json")
}

// LoadWizardConfigFrom reads saved answers. A missing file yields nil, nil.
func LoadWizardConfigFrom(path string) (*WizardConfig, error) {
	if path == "" {
		return nil, errors.New("could not determine wizard config path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var c WizardConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// SaveWizardConfigTo writes answers to path.
func SaveWizardConfigTo(path string, c WizardConfig) error {
	if path == "" {
		return errors.New("could not determine wizard config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
