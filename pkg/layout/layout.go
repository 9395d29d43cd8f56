// Package layout computes deterministic, non-overlapping coordinates for the
// visible part of a mind-map snapshot.
//
// The root sits at the origin and children fan out to the right, stacked
// vertically. Each node reserves a vertical band (its subtree extent) large
// enough for all of its visible descendants, so sibling subtrees never
// overlap regardless of how deep they are. Coordinates are box centres.
//
// Text measurement is injected through Measurer; Compute never touches a
// rendering environment and gives identical output for identical inputs.
package layout

import (
	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Constraints bound a measured box.
type Constraints struct {
	MaxWidth  float64
	MinWidth  float64
	MinHeight float64
}

// Size is a measured box size.
type Size struct {
	Width  float64
	Height float64
}

// Measurer sizes a node's text. Implementations must be pure functions of
// (text, constraints).
type Measurer interface {
	Measure(text string, c Constraints) Size
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(text string, c Constraints) Size

// Measure calls f.
func (f MeasureFunc) Measure(text string, c Constraints) Size { return f(text, c) }

// Options are the spacing constants of the layout.
type Options struct {
	MaxNodeWidth    float64 `yaml:"max_node_width" json:"max_node_width"`
	MinNodeWidth    float64 `yaml:"min_node_width" json:"min_node_width"`
	MinNodeHeight   float64 `yaml:"min_node_height" json:"min_node_height"`
	HorizontalGap   float64 `yaml:"horizontal_gap" json:"horizontal_gap"`
	VerticalSpacing float64 `yaml:"vertical_spacing" json:"vertical_spacing"`
}

// DefaultOptions returns the stock spacing, in pixels.
func DefaultOptions() Options {
	return Options{
		MaxNodeWidth:    400,
		MinNodeWidth:    50,
		MinNodeHeight:   40,
		HorizontalGap:   60,
		VerticalSpacing: 20,
	}
}

// Constraints returns the measurement bounds implied by o.
func (o Options) Constraints() Constraints {
	return Constraints{MaxWidth: o.MaxNodeWidth, MinWidth: o.MinNodeWidth, MinHeight: o.MinNodeHeight}
}

// Scale returns o with every distance multiplied by f.
func (o Options) Scale(f float64) Options {
	return Options{
		MaxNodeWidth:    o.MaxNodeWidth * f,
		MinNodeWidth:    o.MinNodeWidth * f,
		MinNodeHeight:   o.MinNodeHeight * f,
		HorizontalGap:   o.HorizontalGap * f,
		VerticalSpacing: o.VerticalSpacing * f,
	}
}

// Result holds the output of one layout pass.
type Result struct {
	// Boxes has an entry for every visible node.
	Boxes map[model.NodeID]Box
	// Extents is the vertical band reserved by each measured node.
	Extents map[model.NodeID]float64
	// Order lists visible nodes depth-first from the root, children in
	// display order. Hit testing walks this order.
	Order []model.NodeID
}

// Box returns id's box, if id is visible.
func (r Result) Box(id model.NodeID) (Box, bool) {
	b, ok := r.Boxes[id]
	return b, ok
}

// Visible reports whether id received coordinates.
func (r Result) Visible(id model.NodeID) bool {
	_, ok := r.Boxes[id]
	return ok
}

// Bounds returns the rectangle enclosing every visible box. ok is false for
// an empty result.
func (r Result) Bounds() (Rect, bool) {
	if len(r.Order) == 0 {
		return Rect{}, false
	}
	out := r.Boxes[r.Order[0]].Rect()
	for _, id := range r.Order[1:] {
		out = out.Union(r.Boxes[id].Rect())
	}
	return out, true
}

// Compute lays out t. Where drafts holds an entry for a node, that text is
// measured instead of the committed one; drafts is only read.
func Compute(t model.Tree, drafts map[model.NodeID]string, m Measurer, opts Options) Result {
	defer metrics.Timer(metrics.LayoutCompute)()

	e := engine{
		tree:   t,
		drafts: drafts,
		m:      m,
		opts:   opts,
		c:      opts.Constraints(),
		sizes:  make(map[model.NodeID]Size, t.Len()),
		res: Result{
			Boxes:   make(map[model.NodeID]Box, t.Len()),
			Extents: make(map[model.NodeID]float64, t.Len()),
		},
	}
	root, ok := t.Root()
	if !ok {
		return e.res
	}
	e.measure(root)
	e.place(root, 0, 0)
	return e.res
}

type engine struct {
	tree   model.Tree
	drafts map[model.NodeID]string
	m      Measurer
	opts   Options
	c      Constraints
	sizes  map[model.NodeID]Size
	res    Result
}

func (e *engine) text(n model.Node) string {
	if d, ok := e.drafts[n.ID]; ok {
		return d
	}
	return n.Text
}

func (e *engine) size(n model.Node) Size {
	s := e.m.Measure(e.text(n), e.c)
	s.Width = min(max(s.Width, e.opts.MinNodeWidth), e.opts.MaxNodeWidth)
	s.Height = max(s.Height, e.opts.MinNodeHeight)
	return s
}

// measure is the post-order pass. Descendants of collapsed nodes are skipped.
func (e *engine) measure(n model.Node) float64 {
	s := e.size(n)
	e.sizes[n.ID] = s

	extent := s.Height
	if n.Expanded && n.HasChildren() {
		var sum float64
		count := 0
		for _, cid := range n.Children {
			c, ok := e.tree.Node(cid)
			if !ok {
				continue
			}
			sum += e.measure(c)
			count++
		}
		if count > 0 {
			sum += float64(count-1) * e.opts.VerticalSpacing
			extent = max(extent, sum)
		}
	}
	e.res.Extents[n.ID] = extent
	return extent
}

// place is the pre-order pass.
func (e *engine) place(n model.Node, x, y float64) {
	s := e.sizes[n.ID]
	e.res.Boxes[n.ID] = Box{X: x, Y: y, Width: s.Width, Height: s.Height, Depth: n.Depth}
	e.res.Order = append(e.res.Order, n.ID)

	if !n.Expanded || !n.HasChildren() {
		return
	}
	cursor := y - e.res.Extents[n.ID]/2
	for _, cid := range n.Children {
		c, ok := e.tree.Node(cid)
		if !ok {
			continue
		}
		ext := e.res.Extents[cid]
		cs := e.sizes[cid]
		cx := x + s.Width/2 + e.opts.HorizontalGap + cs.Width/2
		e.place(c, cx, cursor+ext/2)
		cursor += ext + e.opts.VerticalSpacing
	}
}
