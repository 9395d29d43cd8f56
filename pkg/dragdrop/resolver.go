// Package dragdrop turns pointer samples during a drag into a pending
// (target, position) pair and applies it on release.
//
// The resolver is a two-state machine, Idle and Dragging. It owns no tree
// state: each Update reads the current snapshot and layout, and Release hands
// the result to a caller-supplied move function exactly once.
package dragdrop

import (
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// DefaultHitPadding grows every candidate box before hit testing, in world
// units.
const DefaultHitPadding = 8

// Classification thresholds on the relative pointer height within a target.
const (
	BeforeThreshold = 0.3
	AfterThreshold  = 0.7
)

// State is the resolver's state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Transform maps a screen point to world coordinates.
type Transform func(x, y float64) (float64, float64)

// MoveFunc applies a drop. It reports whether the tree changed.
type MoveFunc func(dragID, targetID model.NodeID, pos model.DropPosition) bool

// Resolver tracks one drag at a time.
type Resolver struct {
	HitPadding    float64
	ScreenToWorld Transform

	state  State
	drag   model.NodeID
	target model.NodeID
	pos    model.DropPosition
}

// New returns an idle resolver. A nil transform means screen and world
// coordinates coincide.
func New(toWorld Transform) *Resolver {
	return &Resolver{HitPadding: DefaultHitPadding, ScreenToWorld: toWorld}
}

// State returns the current state.
func (r *Resolver) State() State { return r.state }

// DragID returns the node being dragged, or "" when idle.
func (r *Resolver) DragID() model.NodeID { return r.drag }

// Pending returns the drop that Release would apply. ok is false when no
// target is under the pointer.
func (r *Resolver) Pending() (target model.NodeID, pos model.DropPosition, ok bool) {
	if r.state != Dragging || r.target == "" {
		return "", model.DropNone, false
	}
	return r.target, r.pos, true
}

// Begin starts dragging id. Unknown ids are ignored; callers keep the node
// under edit out of drags.
func (r *Resolver) Begin(t model.Tree, id model.NodeID) bool {
	if !t.Has(id) {
		return false
	}
	r.state = Dragging
	r.drag = id
	r.target, r.pos = "", model.DropNone
	debug.Log("drag begin %s", id)
	return true
}

// Update retargets the drag for a pointer at screen position (sx, sy).
// Candidates are visited in l.Order, depth-first from the root, and the first
// box containing the pointer wins. The dragged node and its descendants are
// never candidates.
func (r *Resolver) Update(sx, sy float64, t model.Tree, l layout.Result) {
	if r.state != Dragging {
		return
	}
	defer metrics.Timer(metrics.DragResolve)()

	px, py := sx, sy
	if r.ScreenToWorld != nil {
		px, py = r.ScreenToWorld(sx, sy)
	}

	r.target, r.pos = "", model.DropNone
	for _, id := range l.Order {
		if t.InSubtree(r.drag, id) {
			continue
		}
		box, ok := l.Box(id)
		if !ok || !box.Contains(px, py, r.HitPadding) {
			continue
		}
		r.target = id
		r.pos = Classify(box, py, id == t.RootID())
		return
	}
}

// Classify picks a drop position from the pointer's relative height within
// box. The root only accepts children.
func Classify(box layout.Box, py float64, isRoot bool) model.DropPosition {
	if isRoot {
		return model.DropInside
	}
	var rel float64
	if box.Height > 0 {
		rel = (py - box.Top()) / box.Height
	}
	rel = min(max(rel, 0), 1)
	switch {
	case rel < BeforeThreshold:
		return model.DropBefore
	case rel > AfterThreshold:
		return model.DropAfter
	default:
		return model.DropInside
	}
}

// Release ends the drag. If a target is pending, move is called exactly once
// and its result returned. The resolver is Idle afterwards in every case.
func (r *Resolver) Release(move MoveFunc) bool {
	defer r.reset()
	if r.state != Dragging || r.target == "" || move == nil {
		return false
	}
	applied := move(r.drag, r.target, r.pos)
	debug.Log("drop %s %s %s applied=%v", r.drag, r.pos, r.target, applied)
	return applied
}

// Cancel abandons the drag without moving anything.
func (r *Resolver) Cancel() {
	r.reset()
}

func (r *Resolver) reset() {
	r.state = Idle
	r.drag, r.target, r.pos = "", "", model.DropNone
}
