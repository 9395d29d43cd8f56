package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/measure"
)

func TestSaveAll(t *testing.T) {
	dir := t.TempDir()
	targets := []Target{
		{Path: filepath.Join(dir, "a"), Format: "svg"},
		{Path: filepath.Join(dir, "b.png")},
		{Path: filepath.Join(dir, "c"), Format: "png"},
	}
	results, err := SaveAll(context.Background(), fixture(), Options{Title: "Batch"}, targets)
	if err != nil {
		t.Fatalf("SaveAll error: %v", err)
	}
	want := []string{"a.svg", "b.png", "c.png"}
	for i, r := range results {
		if r.Error != nil {
			t.Errorf("target %d: %v", i, r.Error)
			continue
		}
		if filepath.Base(r.Path) != want[i] {
			t.Errorf("target %d path = %q, want %s", i, r.Path, want[i])
		}
		if _, err := os.Stat(r.Path); err != nil {
			t.Errorf("target %d not written: %v", i, err)
		}
	}
}

func TestSaveAllReportsFailure(t *testing.T) {
	dir := t.TempDir()
	results, err := SaveAll(context.Background(), fixture(), Options{}, []Target{
		{Path: filepath.Join(dir, "bad.gif")},
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if results[0].Error == nil {
		t.Error("failed target should carry its error")
	}
}

func TestSaveAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	results, err := SaveAll(ctx, fixture(), Options{}, []Target{
		{Path: filepath.Join(dir, "a.svg")},
		{Path: filepath.Join(dir, "b.svg")},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for i, r := range results {
		if r.Error == nil {
			t.Errorf("target %d ran after cancel", i)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cancelled batch wrote %d files", len(entries))
	}
}

func TestWriteJSON(t *testing.T) {
	tr := fixture()
	opts := layout.DefaultOptions()
	res := layout.Compute(tr, nil, measure.NewFont(nil), opts)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewLayoutDump(tr, nil, res, opts)); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var got struct {
		Root    string `json:"root"`
		Options struct {
			MaxNodeWidth float64 `json:"max_node_width"`
		} `json:"options"`
		Bounds *struct {
			MinX float64 `json:"min_x"`
		} `json:"bounds"`
		Nodes []struct {
			ID         string `json:"id"`
			Positioned bool   `json:"positioned"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Root != "root" || got.Options.MaxNodeWidth != 400 || got.Bounds == nil {
		t.Errorf("header = %+v", got)
	}
	if len(got.Nodes) != tr.Len() {
		t.Fatalf("nodes = %d, want %d", len(got.Nodes), tr.Len())
	}
	// Hidden nodes come last and carry no position.
	last := got.Nodes[len(got.Nodes)-1]
	if last.ID != "B1" || last.Positioned {
		t.Errorf("last node = %+v, want unpositioned B1", last)
	}
}

func TestWizardConfig(t *testing.T) {
	c := WizardConfig{Path: "out/map.svg", Formats: []string{"svg", "png"}, Preset: "compact", Theme: "dark"}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	targets := c.Targets()
	if len(targets) != 2 || targets[0].Path != "out/map.svg" || targets[1].Path != "out/map.png" {
		t.Errorf("targets = %+v", targets)
	}
	opts := c.Options(Options{Selected: "x"})
	if opts.Preset != "compact" || opts.Theme != "dark" || opts.Selected != "x" {
		t.Errorf("options = %+v", opts)
	}

	bad := WizardConfig{Formats: []string{"gif"}, Preset: "huge", Theme: "neon"}
	err := bad.Validate()
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Validate = %v, want ErrUnsupportedFormat among errors", err)
	}
}

func TestWizardConfigPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "export-wizard.json")

	missing, err := LoadWizardConfigFrom(path)
	if err != nil || missing != nil {
		t.Fatalf("missing file = %+v, %v", missing, err)
	}

	want := WizardConfig{Path: "maps/plan", Formats: []string{"png"}, Preset: "roomy", Theme: "light", Title: "Plan"}
	if err := SaveWizardConfigTo(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadWizardConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Path != want.Path || got.Title != want.Title || len(got.Formats) != 1 || got.Formats[0] != "png" {
		t.Errorf("loaded %+v, want %+v", got, want)
	}
}

func TestNewWizardDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.Dir = "/tmp/maps"
	cfg.Export.Format = "png"
	w := NewWizard(cfg, &bytes.Buffer{})
	c := w.Config()
	if c.Path != filepath.Join("/tmp/maps", "mindmap") || c.Formats[0] != "png" || c.Theme != "light" {
		t.Errorf("seeded config = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("seeded config invalid: %v", err)
	}
}
