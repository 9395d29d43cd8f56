package model

import (
	"slices"
)

// Tree is an immutable snapshot of the whole mind map: the root id plus every
// node keyed by id. The zero value is an empty tree with no root.
type Tree struct {
	rootID NodeID
	nodes  map[NodeID]Node
}

// RootID returns the id of the root node.
func (t Tree) RootID() NodeID {
	return t.rootID
}

// Root returns a copy of the root node.
func (t Tree) Root() (Node, bool) {
	return t.Node(t.rootID)
}

// Node returns a copy of the node with the given id.
func (t Tree) Node(id NodeID) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// Has reports whether id is present in the snapshot.
func (t Tree) Has(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Len returns the number of nodes held by the snapshot.
func (t Tree) Len() int {
	return len(t.nodes)
}

// IDs returns every node id in lexical order.
func (t Tree) IDs() []NodeID {
	ids := make([]NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Children returns a copy of id's child list.
func (t Tree) Children(id NodeID) []NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.Children)
}

// ChildIndex returns the position of child within parent's children, or -1.
func (t Tree) ChildIndex(parent, child NodeID) int {
	n, ok := t.nodes[parent]
	if !ok {
		return -1
	}
	return slices.Index(n.Children, child)
}

// Ancestors returns id's ancestor chain from its parent up to the root.
// The walk stops early if the chain revisits a node, so a malformed
// snapshot cannot loop forever.
func (t Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	seen := map[NodeID]bool{id: true}
	n, ok := t.nodes[id]
	for ok && n.ParentID != nil {
		p := *n.ParentID
		if seen[p] {
			break
		}
		seen[p] = true
		out = append(out, p)
		n, ok = t.nodes[p]
	}
	return out
}

// IsAncestor reports whether ancestor appears on id's parent chain.
// A node is not its own ancestor.
func (t Tree) IsAncestor(ancestor, id NodeID) bool {
	return slices.Contains(t.Ancestors(id), ancestor)
}

// InSubtree reports whether id is root of, or lies below, subtreeRoot.
func (t Tree) InSubtree(subtreeRoot, id NodeID) bool {
	return id == subtreeRoot || t.IsAncestor(subtreeRoot, id)
}

// Walk visits nodes reachable from the root in pre-order, children in display
// order. If fn returns false the node's children are skipped.
func (t Tree) Walk(fn func(n Node) bool) {
	t.WalkFrom(t.rootID, fn)
}

// WalkFrom is Walk starting at an arbitrary node.
func (t Tree) WalkFrom(start NodeID, fn func(n Node) bool) {
	seen := make(map[NodeID]bool, len(t.nodes))
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n, ok := t.nodes[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		if !fn(n.Clone()) {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(start)
}

// Subtree returns start and all of its descendants in pre-order.
func (t Tree) Subtree(start NodeID) []NodeID {
	var out []NodeID
	t.WalkFrom(start, func(n Node) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

// Equal reports whether two snapshots hold the same root and identical nodes.
func (t Tree) Equal(o Tree) bool {
	if t.rootID != o.rootID || len(t.nodes) != len(o.nodes) {
		return false
	}
	for id, a := range t.nodes {
		b, ok := o.nodes[id]
		if !ok || !nodesEqual(a, b) {
			return false
		}
	}
	return true
}

func nodesEqual(a, b Node) bool {
	if a.ID != b.ID || a.Text != b.Text || a.Expanded != b.Expanded || a.Depth != b.Depth {
		return false
	}
	if (a.ParentID == nil) != (b.ParentID == nil) {
		return false
	}
	if a.ParentID != nil && *a.ParentID != *b.ParentID {
		return false
	}
	return slices.Equal(a.Children, b.Children)
}

// Nodes returns copies of every node in lexical id order.
func (t Tree) Nodes() []Node {
	out := make([]Node, 0, len(t.nodes))
	for _, id := range t.IDs() {
		out = append(out, t.nodes[id].Clone())
	}
	return out
}

// Edit starts a copy-on-write edit of t. The returned builder owns a fresh
// id map; t itself is never touched.
func (t Tree) Edit() *Builder {
	nodes := make(map[NodeID]Node, len(t.nodes)+1)
	for id, n := range t.nodes {
		nodes[id] = n
	}
	return &Builder{rootID: t.rootID, nodes: nodes}
}

// Builder assembles a new snapshot. Nodes are copied on the way in and on the
// way out, so a built Tree never aliases caller-owned slices.
type Builder struct {
	rootID NodeID
	nodes  map[NodeID]Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[NodeID]Node)}
}

// SetRoot records which node is the root.
func (b *Builder) SetRoot(id NodeID) *Builder {
	b.rootID = id
	return b
}

// Get returns a copy of a node staged in the builder.
func (b *Builder) Get(id NodeID) (Node, bool) {
	n, ok := b.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// Has reports whether id is staged.
func (b *Builder) Has(id NodeID) bool {
	_, ok := b.nodes[id]
	return ok
}

// Put stages n, replacing any node with the same id.
func (b *Builder) Put(n Node) *Builder {
	b.nodes[n.ID] = n.Clone()
	return b
}

// Delete removes id from the builder.
func (b *Builder) Delete(id NodeID) *Builder {
	delete(b.nodes, id)
	return b
}

// Build freezes the builder into a snapshot. The builder must not be used
// afterwards.
func (b *Builder) Build() Tree {
	t := Tree{rootID: b.rootID, nodes: b.nodes}
	b.nodes = nil
	return t
}

// Initial returns the starter document shown when the editor opens.
func Initial() Tree {
	b := NewBuilder().SetRoot("root")
	add := func(id NodeID, text string, parent NodeID, children ...NodeID) {
		n := Node{ID: id, Text: text, Children: children, Expanded: true}
		if parent != "" {
			n.ParentID = ParentRef(parent)
		}
		b.Put(n)
	}
	add("root", "Central Topic", "", "child-1", "child-2", "child-3")
	add("child-1", "Strategy", "root", "sub-1", "sub-2")
	add("child-2", "Design", "root")
	add("child-3", "Development", "root", "sub-3")
	add("sub-1", "Market Analysis", "child-1")
	add("sub-2", "Goals 2024", "child-1")
	add("sub-3", "React Stack", "child-3")
	return WithDepths(b.Build())
}

// WithDepths returns t with every reachable node's Depth recomputed from the
// root. Unreachable nodes keep their stored depth.
func WithDepths(t Tree) Tree {
	b := t.Edit()
	var visit func(id NodeID, depth int)
	seen := make(map[NodeID]bool, t.Len())
	visit = func(id NodeID, depth int) {
		n, ok := b.nodes[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		if n.Depth != depth {
			n.Depth = depth
			b.nodes[id] = n
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(t.rootID, 0)
	return b.Build()
}
