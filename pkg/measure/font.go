package measure

import (
	"strings"
	"sync"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/metrics"
)

// Font measures text in pixels with a font face, wrapping words the way the
// exporters draw them.
type Font struct {
	PadX        float64 // horizontal padding per side
	PadY        float64 // vertical padding per side
	LineSpacing float64 // line height as a multiple of the face height
	Buffer      float64 // extra width so rounding never forces a rewrap

	mu sync.Mutex
	dc *gg.Context
}

// NewFont returns a measurer for face. A nil face uses basicfont.Face7x13.
func NewFont(face font.Face) *Font {
	if face == nil {
		face = basicfont.Face7x13
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return &Font{PadX: 12, PadY: 8, LineSpacing: 1.5, Buffer: 2, dc: dc}
}

// LineHeight returns the pixel height of one wrapped line.
func (f *Font) LineHeight() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dc.FontHeight() * f.LineSpacing
}

// Wrap splits text into the lines drawn inside a box of the given outer
// width.
func (f *Font) Wrap(text string, outerWidth float64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wrap(text, outerWidth-2*f.PadX)
}

func (f *Font) wrap(text string, avail float64) []string {
	if text == "" {
		text = " "
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, para)
			continue
		}
		lines = append(lines, f.dc.WordWrap(para, avail)...)
	}
	return lines
}

// Measure implements layout.Measurer.
func (f *Font) Measure(text string, c layout.Constraints) layout.Size {
	defer metrics.Timer(metrics.TextMeasure)()
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := f.wrap(text, c.MaxWidth-2*f.PadX-f.Buffer)
	var widest float64
	for _, l := range lines {
		w, _ := f.dc.MeasureString(l)
		widest = max(widest, w)
	}
	lh := f.dc.FontHeight() * f.LineSpacing
	return layout.Size{
		Width:  widest + 2*f.PadX + f.Buffer,
		Height: float64(len(lines))*lh + 2*f.PadY,
	}
}
