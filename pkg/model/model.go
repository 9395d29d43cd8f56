// Package model defines the mind-map tree: nodes keyed by stable id, arranged
// under a single root, held in immutable snapshots.
//
// A Tree value is never modified after it is built. Every accessor returns
// copies, so snapshots held by the undo history stay valid no matter what
// callers do with the values they read.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// NodeID identifies a node. IDs are stable for the lifetime of the node.
type NodeID string

// Node is a single editable text unit in the tree.
type Node struct {
	ID       NodeID   `json:"id" yaml:"id"`
	Text     string   `json:"text" yaml:"text"`
	ParentID *NodeID  `json:"parentId,omitempty" yaml:"parent,omitempty"` // nil iff root
	Children []NodeID `json:"children" yaml:"children,omitempty"`         // display order
	Expanded bool     `json:"isExpanded" yaml:"expanded"`
	Depth    int      `json:"depth" yaml:"depth"`
}

// IsRoot reports whether n has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}

// Parent returns the parent id, or "" for the root.
func (n Node) Parent() NodeID {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

// HasChildren reports whether n has at least one child.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Clone returns a deep copy of n that shares no memory with it.
func (n Node) Clone() Node {
	out := n
	if n.ParentID != nil {
		p := *n.ParentID
		out.ParentID = &p
	}
	out.Children = slices.Clone(n.Children)
	return out
}

// ParentRef returns a pointer suitable for Node.ParentID.
func ParentRef(id NodeID) *NodeID {
	return &id
}

// DropPosition is where a dragged node lands relative to its target.
type DropPosition int

const (
	DropNone DropPosition = iota
	DropBefore
	DropAfter
	DropInside
)

func (p DropPosition) String() string {
	switch p {
	case DropBefore:
		return "before"
	case DropAfter:
		return "after"
	case DropInside:
		return "inside"
	default:
		return "none"
	}
}

// ParseDropPosition parses "before", "after" or "inside" (case-insensitive).
func ParseDropPosition(s string) (DropPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before":
		return DropBefore, nil
	case "after":
		return DropAfter, nil
	case "inside":
		return DropInside, nil
	default:
		return DropNone, fmt.Errorf("invalid drop position %q (want before, after or inside)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p DropPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *DropPosition) UnmarshalText(b []byte) error {
	v, err := ParseDropPosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
