// Package tree is the mutation engine for mind-map snapshots.
//
// Every operation takes a snapshot and returns a new one; inputs are never
// modified. An operation whose precondition fails (missing id, root-only
// restriction, would-create-a-cycle) returns the input unchanged with
// ok=false and must not be recorded in history.
package tree

import (
	"slices"

	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// DefaultPlaceholder is the text given to freshly created nodes.
const DefaultPlaceholder = "New Idea"

// Store applies guarded structural and content mutations.
type Store struct {
	IDs         IDGenerator
	Placeholder string
}

// NewStore returns a Store using ids for new nodes. A nil generator falls
// back to RandomIDs.
func NewStore(ids IDGenerator) *Store {
	if ids == nil {
		ids = RandomIDs{}
	}
	return &Store{IDs: ids, Placeholder: DefaultPlaceholder}
}

func (s *Store) newNode(t model.Tree, parent model.Node) model.Node {
	gen := s.IDs
	if gen == nil {
		gen = RandomIDs{}
	}
	return model.Node{
		ID:       gen.NewID(t.Has),
		Text:     s.Placeholder,
		ParentID: model.ParentRef(parent.ID),
		Expanded: true,
		Depth:    parent.Depth + 1,
	}
}

// AddChild appends a new node to parentID's children and expands the parent.
func (s *Store) AddChild(t model.Tree, parentID model.NodeID) (model.Tree, model.NodeID, bool) {
	defer metrics.Timer(metrics.TreeMutation)()

	parent, ok := t.Node(parentID)
	if !ok {
		return t, "", false
	}
	child := s.newNode(t, parent)
	parent.Children = append(parent.Children, child.ID)
	parent.Expanded = true

	b := t.Edit()
	b.Put(parent).Put(child)
	return b.Build(), child.ID, true
}

// AddSibling inserts a new node directly after refID under the same parent.
// The root has no siblings.
func (s *Store) AddSibling(t model.Tree, refID model.NodeID) (model.Tree, model.NodeID, bool) {
	defer metrics.Timer(metrics.TreeMutation)()

	ref, ok := t.Node(refID)
	if !ok || ref.IsRoot() {
		return t, "", false
	}
	parent, ok := t.Node(ref.Parent())
	if !ok {
		return t, "", false
	}
	idx := slices.Index(parent.Children, refID)
	if idx < 0 {
		return t, "", false
	}
	sib := s.newNode(t, parent)
	parent.Children = slices.Insert(parent.Children, idx+1, sib.ID)

	b := t.Edit()
	b.Put(parent).Put(sib)
	return b.Build(), sib.ID, true
}

// UpdateText replaces a node's text. Writing the text the node already has is
// a no-op.
func (s *Store) UpdateText(t model.Tree, id model.NodeID, text string) (model.Tree, bool) {
	defer metrics.Timer(metrics.TreeMutation)()

	n, ok := t.Node(id)
	if !ok || n.Text == text {
		return t, false
	}
	n.Text = text
	return t.Edit().Put(n).Build(), true
}

// ToggleCollapse flips a node's expanded flag.
func (s *Store) ToggleCollapse(t model.Tree, id model.NodeID) (model.Tree, bool) {
	defer metrics.Timer(metrics.TreeMutation)()

	n, ok := t.Node(id)
	if !ok {
		return t, false
	}
	n.Expanded = !n.Expanded
	return t.Edit().Put(n).Build(), true
}

// SetExpanded forces a node's expanded flag. Setting the current value is a
// no-op.
func (s *Store) SetExpanded(t model.Tree, id model.NodeID, expanded bool) (model.Tree, bool) {
	n, ok := t.Node(id)
	if !ok || n.Expanded == expanded {
		return t, false
	}
	return s.ToggleCollapse(t, id)
}

// DeleteNode detaches id from its parent and drops it together with every
// descendant entry, so no unreachable nodes remain in the snapshot. The root
// cannot be deleted. The returned parent id is where selection should move.
func (s *Store) DeleteNode(t model.Tree, id model.NodeID) (model.Tree, model.NodeID, bool) {
	defer metrics.Timer(metrics.TreeMutation)()

	n, ok := t.Node(id)
	if !ok || n.IsRoot() {
		return t, "", false
	}
	parent, ok := t.Node(n.Parent())
	if !ok {
		return t, "", false
	}
	parent.Children = slices.DeleteFunc(parent.Children, func(c model.NodeID) bool { return c == id })

	b := t.Edit()
	b.Put(parent)
	for _, gone := range t.Subtree(id) {
		b.Delete(gone)
	}
	return b.Build(), parent.ID, true
}

// MoveNode reparents dragID relative to targetID.
//
// Inside appends dragID to targetID's children and expands the target.
// Before and After place dragID next to targetID under targetID's parent.
// Moving the root, moving a node onto itself or into its own subtree, and
// placing a sibling next to the root are all rejected. A move that leaves the
// tree exactly as it was is reported as a no-op.
func (s *Store) MoveNode(t model.Tree, dragID, targetID model.NodeID, pos model.DropPosition) (model.Tree, bool) {
	defer metrics.Timer(metrics.TreeMutation)()

	if dragID == targetID {
		return t, false
	}
	drag, ok := t.Node(dragID)
	if !ok || drag.IsRoot() {
		return t, false
	}
	target, ok := t.Node(targetID)
	if !ok {
		return t, false
	}
	// Cycle guard: the target must not sit inside the dragged subtree.
	if t.IsAncestor(dragID, targetID) {
		return t, false
	}

	var newParent model.NodeID
	switch pos {
	case model.DropInside:
		newParent = targetID
	case model.DropBefore, model.DropAfter:
		if target.IsRoot() {
			return t, false
		}
		newParent = target.Parent()
	default:
		return t, false
	}

	b := t.Edit()

	oldParent, ok := b.Get(drag.Parent())
	if !ok {
		return t, false
	}
	oldParent.Children = slices.DeleteFunc(oldParent.Children, func(c model.NodeID) bool { return c == dragID })
	b.Put(oldParent)

	dest, ok := b.Get(newParent)
	if !ok {
		return t, false
	}
	if pos == model.DropInside {
		dest.Children = append(dest.Children, dragID)
		dest.Expanded = true
	} else {
		idx := slices.Index(dest.Children, targetID)
		if idx < 0 {
			return t, false
		}
		if pos == model.DropAfter {
			idx++
		}
		dest.Children = slices.Insert(dest.Children, idx, dragID)
	}
	b.Put(dest)

	drag.ParentID = model.ParentRef(newParent)
	b.Put(drag)

	out := model.WithDepths(b.Build())
	if out.Equal(t) {
		return t, false
	}
	return out, true
}
