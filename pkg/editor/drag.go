package editor

import (
	"github.com/vanderheijden86/mindmap/pkg/dragdrop"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// SetScreenToWorld installs the viewport transform used for drag hit tests.
func (s *Session) SetScreenToWorld(fn dragdrop.Transform) {
	s.resolve.ScreenToWorld = fn
}

// BeginDrag starts dragging id. The node being edited cannot be dragged.
func (s *Session) BeginDrag(id model.NodeID) bool {
	if id == s.editing {
		return false
	}
	return s.resolve.Begin(s.Tree(), id)
}

// Dragging reports whether a drag is in progress, and of which node.
func (s *Session) Dragging() (model.NodeID, bool) {
	if s.resolve.State() != dragdrop.Dragging {
		return "", false
	}
	return s.resolve.DragID(), true
}

// DragTo feeds a pointer sample in screen coordinates.
func (s *Session) DragTo(sx, sy float64) {
	s.resolve.Update(sx, sy, s.Tree(), s.lay)
}

// DropTarget returns the pending drop for previews.
func (s *Session) DropTarget() (model.NodeID, model.DropPosition, bool) {
	return s.resolve.Pending()
}

// Drop ends the drag, applying the pending move if there is one.
func (s *Session) Drop() bool {
	return s.resolve.Release(s.MoveNode)
}

// CancelDrag abandons the drag.
func (s *Session) CancelDrag() {
	s.resolve.Cancel()
}
