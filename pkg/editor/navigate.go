package editor

import (
	"math"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Direction is an arrow-key direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	return [...]string{"left", "right", "up", "down"}[d]
}

// Geometric navigation windows, in world units at the default spacing. They
// shrink and grow with the session's minimum node size.
const (
	navMaxDX = 100
	navMinDY = 10
	navMinDX = 10
)

// Navigate moves the selection. Left goes to the parent. Right goes to the
// middle child of an expanded node. Otherwise the nearest visible node in
// the requested direction is chosen: up and down look within a column
// navMaxDX wide, right looks for anything further right. Selection is left
// alone when there is no candidate.
func (s *Session) Navigate(dir Direction) bool {
	t := s.Tree()
	cur, ok := t.Node(s.selected)
	if !ok {
		return false
	}

	var next model.NodeID
	switch {
	case dir == Left:
		next = cur.Parent()
	case dir == Right && cur.Expanded && cur.HasChildren():
		next = cur.Children[len(cur.Children)/2]
	default:
		next = s.nearest(cur.ID, dir)
	}
	if next == "" {
		return false
	}
	s.selected = next
	return true
}

func (s *Session) nearest(from model.NodeID, dir Direction) model.NodeID {
	origin, ok := s.lay.Box(from)
	if !ok {
		return ""
	}
	def := layout.DefaultOptions()
	kx := s.opts.MinNodeWidth / def.MinNodeWidth
	ky := s.opts.MinNodeHeight / def.MinNodeHeight
	maxDX, minDX, minDY := navMaxDX*kx, navMinDX*kx, navMinDY*ky

	best := model.NodeID("")
	bestDist := math.Inf(1)
	for _, id := range s.lay.Order {
		if id == from {
			continue
		}
		b := s.lay.Boxes[id]
		dx, dy := b.X-origin.X, b.Y-origin.Y
		var valid bool
		switch dir {
		case Up:
			valid = dy < -minDY && math.Abs(dx) < maxDX
		case Down:
			valid = dy > minDY && math.Abs(dx) < maxDX
		case Right:
			valid = dx > minDX
		}
		if !valid {
			continue
		}
		if d := math.Hypot(dx, dy); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}
