// Package history keeps the linear undo/redo timeline of tree snapshots.
//
// Snapshots are immutable, so History stores them by value without copying.
// Every successful mutation pushes exactly one snapshot; undo moves the
// present into the future stack, redo moves it back, and a new push after an
// undo discards the future.
package history

import (
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// History is a past/present/future stack of snapshots. The zero value is not
// usable; call New.
type History struct {
	past    []model.Tree
	present model.Tree
	future  []model.Tree

	// Limit caps the number of past entries kept; the oldest are dropped
	// first. Zero means unlimited.
	Limit int
}

// New starts a history whose present is initial.
func New(initial model.Tree) *History {
	return &History{present: initial}
}

// Present returns the current snapshot.
func (h *History) Present() model.Tree {
	return h.present
}

// Push makes next the present and clears the redo stack.
func (h *History) Push(next model.Tree) {
	h.past = append(h.past, h.present)
	h.present = next
	h.future = nil
	if h.Limit > 0 && len(h.past) > h.Limit {
		drop := len(h.past) - h.Limit
		h.past = append([]model.Tree(nil), h.past[drop:]...)
	}
	debug.Logw("history push", "past", len(h.past))
}

// Undo steps back one snapshot. It reports false when there is nothing to
// undo.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := len(h.past) - 1
	h.future = append(h.future, h.present)
	h.present = h.past[last]
	h.past = h.past[:last]
	debug.Logw("history undo", "past", len(h.past), "future", len(h.future))
	return true
}

// Redo re-applies the most recently undone snapshot. It reports false when
// there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	last := len(h.future) - 1
	h.past = append(h.past, h.present)
	h.present = h.future[last]
	h.future = h.future[:last]
	debug.Logw("history redo", "past", len(h.past), "future", len(h.future))
	return true
}

// CanUndo reports whether Undo would change the present.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change the present.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Len returns the sizes of the past and future stacks.
func (h *History) Len() (past, future int) {
	return len(h.past), len(h.future)
}

// Reset discards both stacks and makes t the present.
func (h *History) Reset(t model.Tree) {
	h.past, h.future = nil, nil
	h.present = t
}
