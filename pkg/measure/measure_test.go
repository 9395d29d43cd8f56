package measure

import (
	"slices"
	"strings"
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/layout"
)

func TestWrapCells(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{""}},
		{"fits", "Central Topic", 20, []string{"Central Topic"}},
		{"wraps at space", "Market Analysis", 8, []string{"Market", "Analysis"}},
		{"collapses spaces", "a   b", 10, []string{"a b"}},
		{"keeps newlines", "one\ntwo", 10, []string{"one", "two"}},
		{"blank line", "one\n\ntwo", 10, []string{"one", "", "two"}},
		{"splits long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"wide runes", "日本語テキスト", 6, []string{"日本語", "テキス", "ト"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapCells(tt.text, tt.width)
			if !slices.Equal(got, tt.want) {
				t.Errorf("WrapCells(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestTerminalMeasure(t *testing.T) {
	m := Terminal()
	c := layout.Constraints{MaxWidth: 20, MinWidth: 6, MinHeight: 3}

	s := m.Measure("Design", c)
	if s.Width != 10 || s.Height != 3 {
		t.Errorf("Measure(Design) = %+v, want 10x3", s)
	}

	// 16 cells of text room: "Market Analysis Q3" wraps into two lines.
	s = m.Measure("Market Analysis Q3", c)
	if s.Height != 4 {
		t.Errorf("wrapped height = %v, want 4", s.Height)
	}
	if s.Width > c.MaxWidth {
		t.Errorf("width %v exceeds max %v", s.Width, c.MaxWidth)
	}
}

func TestCellsScaleUnits(t *testing.T) {
	m := Cells{CellWidth: 8, LineHeight: 16, PadX: 1, PadY: 1}
	s := m.Measure("abc", layout.Constraints{MaxWidth: 400})
	if s.Width != 40 || s.Height != 48 {
		t.Errorf("Measure = %+v, want 40x48", s)
	}
}

func TestFontMeasure(t *testing.T) {
	f := NewFont(nil)
	c := layout.DefaultOptions().Constraints()

	// basicfont glyphs advance 7px; padding 12 per side plus 2px buffer.
	s := f.Measure("Hello", c)
	if s.Width != 5*7+24+2 {
		t.Errorf("width = %v, want %v", s.Width, 5*7+24+2)
	}
	if want := f.LineHeight() + 16; s.Height != want {
		t.Errorf("height = %v, want %v", s.Height, want)
	}

	empty := f.Measure("", c)
	if empty.Height != s.Height {
		t.Errorf("empty text should measure one line, got %v", empty.Height)
	}

	long := f.Measure(strings.Repeat("word ", 40), c)
	if long.Width > c.MaxWidth {
		t.Errorf("wrapped width %v exceeds %v", long.Width, c.MaxWidth)
	}
	if long.Height <= s.Height {
		t.Errorf("long text should wrap onto several lines, height %v", long.Height)
	}
}

func TestFontWrap(t *testing.T) {
	f := NewFont(nil)
	lines := f.Wrap("alpha beta gamma", 24+7*10)
	if !slices.Equal(lines, []string{"alpha beta", "gamma"}) {
		t.Errorf("Wrap = %q", lines)
	}
}

func TestCached(t *testing.T) {
	calls := 0
	inner := layout.MeasureFunc(func(text string, c layout.Constraints) layout.Size {
		calls++
		return layout.Size{Width: float64(len(text))}
	})
	m := NewCached(inner)
	c := layout.DefaultOptions().Constraints()

	m.Measure("a", c)
	m.Measure("a", c)
	m.Measure("bb", c)
	if calls != 2 {
		t.Errorf("inner calls = %d, want 2", calls)
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 2 {
		t.Errorf("Stats = (%d, %d), want (1, 2)", hits, misses)
	}

	m.Reset()
	m.Measure("a", c)
	if calls != 3 {
		t.Errorf("Reset should drop entries, calls = %d", calls)
	}
}
