package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Validation errors. Validate wraps them with the offending ids.
var (
	ErrEmptyTree     = errors.New("tree has no nodes")
	ErrRootCount     = errors.New("tree must have exactly one root")
	ErrDanglingChild = errors.New("child id not in tree")
	ErrParentLink    = errors.New("parent and children disagree")
	ErrCycle         = errors.New("parent relation has a cycle")
	ErrDepth         = errors.New("depth inconsistent with parent chain")
)

// Validate checks the structural invariants every committed snapshot must
// hold: a single parentless root, an acyclic parent relation, children lists
// that agree with parent pointers, and depths that follow the parent chain.
func Validate(t Tree) error {
	if len(t.nodes) == 0 {
		return ErrEmptyTree
	}

	var roots []NodeID
	for _, id := range t.IDs() {
		if t.nodes[id].ParentID == nil {
			roots = append(roots, id)
		}
	}
	if len(roots) != 1 || roots[0] != t.rootID {
		return fmt.Errorf("%w: root=%q parentless=%v", ErrRootCount, t.rootID, roots)
	}

	if err := checkAcyclic(t); err != nil {
		return err
	}

	for _, id := range t.IDs() {
		n := t.nodes[id]
		seen := make(map[NodeID]bool, len(n.Children))
		for _, c := range n.Children {
			child, ok := t.nodes[c]
			if !ok {
				return fmt.Errorf("%w: %q lists %q", ErrDanglingChild, id, c)
			}
			if seen[c] || child.ParentID == nil || *child.ParentID != id {
				return fmt.Errorf("%w: %q lists %q whose parent is %q", ErrParentLink, id, c, child.Parent())
			}
			seen[c] = true
		}
		if n.ParentID != nil {
			p, ok := t.nodes[*n.ParentID]
			if !ok {
				return fmt.Errorf("%w: %q has missing parent %q", ErrParentLink, id, *n.ParentID)
			}
			if t.ChildIndex(p.ID, id) < 0 {
				return fmt.Errorf("%w: %q is not listed by parent %q", ErrParentLink, id, p.ID)
			}
			if n.Depth != p.Depth+1 {
				return fmt.Errorf("%w: %q depth %d, parent %q depth %d", ErrDepth, id, n.Depth, p.ID, p.Depth)
			}
		} else if n.Depth != 0 {
			return fmt.Errorf("%w: root %q depth %d", ErrDepth, id, n.Depth)
		}
	}
	return nil
}

// checkAcyclic builds the parent->child graph and asks gonum for a
// topological order; any cycle makes the graph unorderable.
func checkAcyclic(t Tree) error {
	g := simple.NewDirectedGraph()
	index := make(map[NodeID]int64, len(t.nodes))
	for i, id := range t.IDs() {
		index[id] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}
	for _, id := range t.IDs() {
		n := t.nodes[id]
		if n.ParentID == nil {
			continue
		}
		p := *n.ParentID
		if p == id {
			return fmt.Errorf("%w: %q is its own parent", ErrCycle, id)
		}
		pi, ok := index[p]
		if !ok {
			return fmt.Errorf("%w: %q has missing parent %q", ErrParentLink, id, p)
		}
		g.SetEdge(g.NewEdge(g.Node(pi), g.Node(index[id])))
	}
	if _, err := topo.Sort(g); err != nil {
		return fmt.Errorf("%w: %v", ErrCycle, err)
	}
	return nil
}
