// Package measure provides layout.Measurer implementations: Cells for
// terminal rendering, Font for raster and vector export, and Cached to memoise
// either.
package measure

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mindmap/pkg/layout"
)

// Cells measures text in terminal cells. One cell is CellWidth world units
// wide and one line LineHeight units tall; PadX and PadY are in cells and
// lines and cover padding plus border.
type Cells struct {
	CellWidth  float64
	LineHeight float64
	PadX       int
	PadY       int
}

// Terminal is the measurer used by the TUI: world units are cells, with a
// one-cell border and one cell of padding on each side.
func Terminal() Cells {
	return Cells{CellWidth: 1, LineHeight: 1, PadX: 2, PadY: 1}
}

// Measure implements layout.Measurer.
func (c Cells) Measure(text string, cons layout.Constraints) layout.Size {
	cw, lh := c.CellWidth, c.LineHeight
	if cw <= 0 {
		cw = 1
	}
	if lh <= 0 {
		lh = 1
	}
	avail := int(cons.MaxWidth/cw) - 2*c.PadX
	if avail < 1 {
		avail = 1
	}
	lines := WrapCells(text, avail)
	widest := 0
	for _, l := range lines {
		widest = max(widest, runewidth.StringWidth(l))
	}
	return layout.Size{
		Width:  float64(widest+2*c.PadX) * cw,
		Height: float64(len(lines)+2*c.PadY) * lh,
	}
}

// WrapCells breaks text into lines no wider than width cells. Explicit
// newlines are kept, runs of spaces collapse, and words longer than a line
// are split. Empty text yields a single empty line.
func WrapCells(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var line strings.Builder
		lineW := 0
		flush := func() {
			out = append(out, line.String())
			line.Reset()
			lineW = 0
		}
		for _, w := range words {
			ww := runewidth.StringWidth(w)
			if lineW > 0 && lineW+1+ww <= width {
				line.WriteByte(' ')
				line.WriteString(w)
				lineW += 1 + ww
				continue
			}
			if lineW > 0 {
				flush()
			}
			for ww > width {
				head := runewidth.Truncate(w, width, "")
				if head == "" {
					// A single rune wider than the line.
					r := []rune(w)
					head = string(r[0])
				}
				out = append(out, head)
				w = w[len(head):]
				ww = runewidth.StringWidth(w)
			}
			line.WriteString(w)
			lineW = ww
		}
		if lineW > 0 {
			flush()
		}
	}
	return out
}
