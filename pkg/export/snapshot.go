// Package export renders laid-out mind maps to static files.
//
// Snapshots come in two formats: SVG (drawn with svgo) and PNG (drawn with
// gg). Both use the same scene, built from one layout pass whose boxes are
// measured with the same font the PNG renderer draws with.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// ErrUnsupportedFormat is returned for an output format other than svg or png.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Options controls a snapshot.
type Options struct {
	Path   string // output file; extension picks the format when Format is empty
	Format string // "svg" or "png"
	Title  string // optional header line
	Preset string // "compact" or "roomy" (default)
	Theme  string // "light" (default) or "dark"

	// Layout is the base spacing before the preset applies. Zero value means
	// layout.DefaultOptions.
	Layout layout.Options
	// Drafts overrides node text, as an open editor would show it.
	Drafts map[model.NodeID]string
	// Selected is outlined in the accent colour.
	Selected model.NodeID
}

// Presets lists the accepted preset names.
var Presets = []string{"compact", "roomy"}

// PresetOptions applies preset to base.
func PresetOptions(base layout.Options, preset string) (layout.Options, error) {
	if base == (layout.Options{}) {
		base = layout.DefaultOptions()
	}
	switch strings.ToLower(preset) {
	case "", "roomy":
		return base, nil
	case "compact":
		o := base
		o.MaxNodeWidth = base.MaxNodeWidth * 0.6
		o.HorizontalGap = base.HorizontalGap / 2
		o.VerticalSpacing = base.VerticalSpacing / 2
		return o, nil
	default:
		return base, fmt.Errorf("unknown preset %q (want compact or roomy)", preset)
	}
}

// ResolveTarget settles the output path and format. A path without an
// extension gets one; an extension that disagrees with an explicit format is
// an error.
func ResolveTarget(path, format string) (string, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch {
	case format == "" && ext == "":
		format = "svg"
		path += ".svg"
	case format == "":
		format = ext
	case ext == "":
		path += "." + format
	case ext != format:
		return "", "", fmt.Errorf("%w: %q does not match extension of %s", ErrUnsupportedFormat, format, path)
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("%w %q (want svg or png)", ErrUnsupportedFormat, format)
	}
	return path, format, nil
}

// SaveSnapshot renders t to opts.Path and returns the path written, which
// may have gained an extension.
func SaveSnapshot(t model.Tree, opts Options) (string, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return "", errors.New("snapshot path is required")
	}
	path, format, err := ResolveTarget(opts.Path, opts.Format)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	opts.Format = format
	if err := Render(f, t, opts); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	debug.Logw("snapshot written", "path", path, "format", format, "nodes", t.Len())
	return path, nil
}

// Render writes t in opts.Format (svg when empty) to w.
func Render(w io.Writer, t model.Tree, opts Options) error {
	defer metrics.Timer(metrics.ExportRender)()

	sc, err := buildScene(t, opts)
	if err != nil {
		return err
	}
	switch strings.ToLower(opts.Format) {
	case "", "svg":
		return sc.writeSVG(w)
	case "png":
		return sc.writePNG(w)
	default:
		return fmt.Errorf("%w %q (want svg or png)", ErrUnsupportedFormat, opts.Format)
	}
}

// RenderSVG writes t as SVG.
func RenderSVG(w io.Writer, t model.Tree, opts Options) error {
	opts.Format = "svg"
	return Render(w, t, opts)
}

// RenderPNG writes t as PNG.
func RenderPNG(w io.Writer, t model.Tree, opts Options) error {
	opts.Format = "png"
	return Render(w, t, opts)
}

// TextMeasurer is the measurer snapshots are laid out with. Sessions that
// feed an export should lay out with it too, so pointer drags line up with
// the rendered boxes.
func TextMeasurer() *measure.Font {
	return measure.NewFont(basicfont.Face7x13)
}

// --- scene -----------------------------------------------------------------

const (
	margin       = 40.0
	headerHeight = 48.0
	cornerRadius = 8.0
)

type sceneNode struct {
	ID        model.NodeID
	X, Y      float64 // top-left
	W, H      float64
	Lines     []string
	Root      bool
	Selected  bool
	Collapsed bool // has children hidden from view
}

type sceneEdge struct {
	X1, Y1, X2, Y2 float64
}

type scene struct {
	width, height int
	title         string
	header        float64
	lineHeight    float64
	pal           palette
	nodes         []sceneNode
	edges         []sceneEdge
}

func buildScene(t model.Tree, opts Options) (*scene, error) {
	if t.Len() == 0 {
		return nil, errors.New("nothing to render: tree is empty")
	}
	lopts, err := PresetOptions(opts.Layout, opts.Preset)
	if err != nil {
		return nil, err
	}
	pal, err := paletteFor(opts.Theme)
	if err != nil {
		return nil, err
	}

	font := TextMeasurer()
	res := layout.Compute(t, opts.Drafts, font, lopts)
	bounds, ok := res.Bounds()
	if !ok {
		return nil, errors.New("nothing to render: no visible nodes")
	}

	sc := &scene{
		title:      strings.TrimSpace(opts.Title),
		lineHeight: font.LineHeight(),
		pal:        pal,
	}
	if sc.title != "" {
		sc.header = headerHeight
	}
	dx := margin - bounds.MinX
	dy := margin + sc.header - bounds.MinY
	sc.width = int(math.Ceil(bounds.Width() + 2*margin))
	sc.height = int(math.Ceil(bounds.Height() + 2*margin + sc.header))
	if sc.title != "" {
		sc.width = max(sc.width, int(2*margin)+7*len([]rune(sc.title)))
	}

	for _, id := range res.Order {
		n, _ := t.Node(id)
		box := res.Boxes[id]
		text := n.Text
		if d, ok := opts.Drafts[id]; ok {
			text = d
		}
		sc.nodes = append(sc.nodes, sceneNode{
			ID:        id,
			X:         box.Left() + dx,
			Y:         box.Top() + dy,
			W:         box.Width,
			H:         box.Height,
			Lines:     font.Wrap(text, box.Width),
			Root:      n.ParentID == nil,
			Selected:  id == opts.Selected,
			Collapsed: !n.Expanded && len(n.Children) > 0,
		})
		if n.ParentID == nil {
			continue
		}
		pb := res.Boxes[*n.ParentID]
		sc.edges = append(sc.edges, sceneEdge{
			X1: pb.Right() + dx, Y1: pb.Y + dy,
			X2: box.Left() + dx, Y2: box.Y + dy,
		})
	}
	return sc, nil
}

// lineY returns the vertical centre of line i inside n. The text block is
// centred so boxes raised to the minimum height stay balanced.
func (sc *scene) lineY(n sceneNode, i int) float64 {
	top := n.Y + (n.H-float64(len(n.Lines))*sc.lineHeight)/2
	return top + (float64(i)+0.5)*sc.lineHeight
}

// --- palette ---------------------------------------------------------------

type palette struct {
	backdrop, header      color.RGBA
	node, root, collapsed color.RGBA
	stroke, accent, edge  color.RGBA
	text, subtle          color.RGBA
}

var (
	lightPalette = palette{
		backdrop:  color.RGBA{0xf9, 0xfa, 0xfb, 0xff},
		header:    color.RGBA{0xf3, 0xf4, 0xf6, 0xff},
		node:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		root:      color.RGBA{0xe0, 0xe7, 0xff, 0xff},
		collapsed: color.RGBA{0xee, 0xee, 0xee, 0xff},
		stroke:    color.RGBA{0x94, 0xa3, 0xb8, 0xff},
		accent:    color.RGBA{0x63, 0x66, 0xf1, 0xff},
		edge:      color.RGBA{0x6b, 0x80, 0xbf, 0xff},
		text:      color.RGBA{0x11, 0x11, 0x11, 0xff},
		subtle:    color.RGBA{0x66, 0x66, 0x66, 0xff},
	}
	darkPalette = palette{
		backdrop:  color.RGBA{0x1e, 0x1e, 0x2e, 0xff},
		header:    color.RGBA{0x28, 0x2a, 0x36, 0xff},
		node:      color.RGBA{0x31, 0x32, 0x44, 0xff},
		root:      color.RGBA{0x45, 0x47, 0x5a, 0xff},
		collapsed: color.RGBA{0x26, 0x27, 0x35, 0xff},
		stroke:    color.RGBA{0x58, 0x5b, 0x70, 0xff},
		accent:    color.RGBA{0xbd, 0x93, 0xf9, 0xff},
		edge:      color.RGBA{0x89, 0xb4, 0xfa, 0xff},
		text:      color.RGBA{0xf8, 0xf8, 0xf2, 0xff},
		subtle:    color.RGBA{0xa6, 0xad, 0xc8, 0xff},
	}
)

func paletteFor(theme string) (palette, error) {
	switch strings.ToLower(theme) {
	case "", "light", "auto":
		return lightPalette, nil
	case "dark":
		return darkPalette, nil
	default:
		return palette{}, fmt.Errorf("unknown theme %q", theme)
	}
}

func (p palette) fill(n sceneNode) color.RGBA {
	switch {
	case n.Root:
		return p.root
	case n.Collapsed:
		return p.collapsed
	default:
		return p.node
	}
}

func (p palette) outline(n sceneNode) (color.RGBA, float64) {
	if n.Selected {
		return p.accent, 2.5
	}
	return p.stroke, 1.2
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// --- SVG -------------------------------------------------------------------

func (sc *scene) writeSVG(w io.Writer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(sc.width, sc.height)
	canvas.Rect(0, 0, sc.width, sc.height, "fill:"+css(sc.pal.backdrop))

	if sc.title != "" {
		canvas.Title(sc.title)
		canvas.Roundrect(16, 12, sc.width-32, int(sc.header-8), 10, 10, "fill:"+css(sc.pal.header))
		canvas.Text(32, 12+int(sc.header-8)/2+5, sc.title,
			fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(sc.pal.text)))
	}

	edgeStyle := fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(sc.pal.edge))
	for _, e := range sc.edges {
		mx := (e.X1 + e.X2) / 2
		canvas.Bezier(
			round(e.X1), round(e.Y1),
			round(mx), round(e.Y1),
			round(mx), round(e.Y2),
			round(e.X2), round(e.Y2),
			edgeStyle)
	}

	for _, n := range sc.nodes {
		stroke, width := sc.pal.outline(n)
		canvas.Gid(string(n.ID))
		canvas.Roundrect(round(n.X), round(n.Y), round(n.W), round(n.H), cornerRadius, cornerRadius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", css(sc.pal.fill(n)), css(stroke), width))
		weight := "normal"
		if n.Root {
			weight = "bold"
		}
		textStyle := fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:%s;text-anchor:middle;dominant-baseline:central",
			css(sc.pal.text), weight)
		for i, line := range n.Lines {
			canvas.Text(round(n.X+n.W/2), round(sc.lineY(n, i)), line, textStyle)
		}
		if n.Collapsed {
			canvas.Circle(round(n.X+n.W), round(n.Y+n.H/2), 4,
				fmt.Sprintf("fill:%s;stroke:%s", css(sc.pal.backdrop), css(sc.pal.edge)))
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo does not report any.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func round(f float64) int { return int(math.Round(f)) }

// --- PNG -------------------------------------------------------------------

func (sc *scene) writePNG(w io.Writer) error {
	dc := gg.NewContext(sc.width, sc.height)
	dc.SetColor(sc.pal.backdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if sc.title != "" {
		dc.SetColor(sc.pal.header)
		dc.DrawRoundedRectangle(16, 12, float64(sc.width)-32, sc.header-8, 10)
		dc.Fill()
		dc.SetColor(sc.pal.text)
		dc.DrawStringAnchored(sc.title, 32, 12+(sc.header-8)/2, 0, 0.5)
	}

	dc.SetColor(sc.pal.edge)
	dc.SetLineWidth(2)
	for _, e := range sc.edges {
		mx := (e.X1 + e.X2) / 2
		dc.MoveTo(e.X1, e.Y1)
		dc.CubicTo(mx, e.Y1, mx, e.Y2, e.X2, e.Y2)
		dc.Stroke()
	}

	for _, n := range sc.nodes {
		dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, cornerRadius)
		dc.SetColor(sc.pal.fill(n))
		dc.FillPreserve()
		stroke, width := sc.pal.outline(n)
		dc.SetColor(stroke)
		dc.SetLineWidth(width)
		dc.Stroke()

		dc.SetColor(sc.pal.text)
		for i, line := range n.Lines {
			dc.DrawStringAnchored(line, n.X+n.W/2, sc.lineY(n, i), 0.5, 0.5)
		}
		if n.Collapsed {
			dc.DrawCircle(n.X+n.W, n.Y+n.H/2, 4)
			dc.SetColor(sc.pal.backdrop)
			dc.FillPreserve()
			dc.SetColor(sc.pal.edge)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}

	return dc.EncodePNG(w)
}
