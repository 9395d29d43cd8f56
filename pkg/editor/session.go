// Package editor ties the tree store, undo history, draft overlay, selection
// and layout into one editing session.
//
// A Session is the mutation and query surface used by the terminal UI, the
// script runner and the CLI. Every successful structural or content change
// pushes exactly one snapshot; rejected operations push nothing. Layout is
// recomputed synchronously after every change, including draft updates.
package editor

import (
	"maps"

	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/dragdrop"
	"github.com/vanderheijden86/mindmap/pkg/history"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/tree"
)

// Options configure a Session.
type Options struct {
	Layout       layout.Options
	Measurer     layout.Measurer
	IDs          tree.IDGenerator
	HistoryLimit int
	HitPadding   float64
	Placeholder  string
}

// DefaultOptions uses the stock layout, random ids and a measurer that
// reserves the minimum box for every node. Callers that render text should
// set Measurer.
func DefaultOptions() Options {
	return Options{
		Layout:     layout.DefaultOptions(),
		HitPadding: dragdrop.DefaultHitPadding,
	}
}

var minimalBox = layout.MeasureFunc(func(string, layout.Constraints) layout.Size {
	return layout.Size{}
})

// Session is a single-document editing session. It is not safe for
// concurrent use.
type Session struct {
	store   *tree.Store
	hist    *history.History
	m       layout.Measurer
	opts    layout.Options
	resolve *dragdrop.Resolver

	drafts   map[model.NodeID]string
	selected model.NodeID
	editing  model.NodeID
	lay      layout.Result
}

// New opens a session on initial.
func New(initial model.Tree, opts Options) *Session {
	s := &Session{
		store:   tree.NewStore(opts.IDs),
		hist:    history.New(initial),
		m:       opts.Measurer,
		opts:    opts.Layout,
		resolve: dragdrop.New(nil),
		drafts:  make(map[model.NodeID]string),
	}
	if s.m == nil {
		s.m = minimalBox
	}
	if s.opts == (layout.Options{}) {
		s.opts = layout.DefaultOptions()
	}
	if opts.Placeholder != "" {
		s.store.Placeholder = opts.Placeholder
	}
	if opts.HitPadding > 0 {
		s.resolve.HitPadding = opts.HitPadding
	}
	s.hist.Limit = opts.HistoryLimit
	s.relayout()
	return s
}

// Tree returns the present snapshot.
func (s *Session) Tree() model.Tree { return s.hist.Present() }

// Layout returns the layout of the present snapshot with drafts applied.
func (s *Session) Layout() layout.Result { return s.lay }

// Resolved returns every node with draft text and coordinates merged in.
func (s *Session) Resolved() []layout.ResolvedNode {
	return s.lay.Resolve(s.Tree(), s.drafts)
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// HistoryLen returns the sizes of the undo and redo stacks.
func (s *Session) HistoryLen() (past, future int) { return s.hist.Len() }

// SelectedID returns the selected node, or "".
func (s *Session) SelectedID() model.NodeID { return s.selected }

// EditingID returns the node being edited, or "".
func (s *Session) EditingID() model.NodeID { return s.editing }

// Drafts returns a copy of the draft overlay.
func (s *Session) Drafts() map[model.NodeID]string { return maps.Clone(s.drafts) }

// Draft returns the draft text for id, if any.
func (s *Session) Draft(id model.NodeID) (string, bool) {
	d, ok := s.drafts[id]
	return d, ok
}

// LayoutOptions returns the spacing in use.
func (s *Session) LayoutOptions() layout.Options { return s.opts }

// SetMeasurer swaps the measurer and relays out.
func (s *Session) SetMeasurer(m layout.Measurer) {
	if m == nil {
		m = minimalBox
	}
	s.m = m
	s.relayout()
}

// Select marks id as selected. Unknown ids are ignored.
func (s *Session) Select(id model.NodeID) bool {
	if !s.Tree().Has(id) {
		return false
	}
	s.selected = id
	return true
}

// ClearSelection deselects.
func (s *Session) ClearSelection() { s.selected = "" }

// Reset replaces the document, discarding history, drafts and selection.
func (s *Session) Reset(t model.Tree) {
	s.hist.Reset(t)
	s.resolve.Cancel()
	clear(s.drafts)
	s.selected, s.editing = "", ""
	s.relayout()
}

func (s *Session) commit(next model.Tree, op string) {
	s.hist.Push(next)
	s.prune()
	s.relayout()
	debug.Logw("commit", "op", op, "nodes", next.Len())
}

// prune drops selection, edit state and drafts that point at nodes the
// present snapshot no longer has. A selection hidden under a collapsed node
// moves up to that node.
func (s *Session) prune() {
	t := s.Tree()
	if s.selected != "" && !t.Has(s.selected) {
		s.selected = ""
	}
	if s.selected != "" {
		s.selected = visibleAncestor(t, s.selected)
	}
	if s.editing != "" && !t.Has(s.editing) {
		s.editing = ""
	}
	for id := range s.drafts {
		if !t.Has(id) {
			delete(s.drafts, id)
		}
	}
}

// visibleAncestor returns the outermost collapsed ancestor of id, or id
// itself when every ancestor is expanded.
func visibleAncestor(t model.Tree, id model.NodeID) model.NodeID {
	anc := t.Ancestors(id)
	for i := len(anc) - 1; i >= 0; i-- {
		if n, ok := t.Node(anc[i]); ok && !n.Expanded {
			return anc[i]
		}
	}
	return id
}

func (s *Session) relayout() {
	s.lay = layout.Compute(s.Tree(), s.drafts, s.m, s.opts)
}

// AddChild appends a placeholder child to parentID, then selects it and
// starts editing it. An edit already in progress is committed first.
func (s *Session) AddChild(parentID model.NodeID) (model.NodeID, bool) {
	if !s.Tree().Has(parentID) {
		debug.Log("addChild %s rejected", parentID)
		return "", false
	}
	s.EndEdit()
	next, id, ok := s.store.AddChild(s.Tree(), parentID)
	if !ok {
		debug.Log("addChild %s rejected", parentID)
		return "", false
	}
	s.commit(next, "addChild")
	s.selected, s.editing = id, id
	return id, true
}

// AddSibling inserts a placeholder after refID, then selects it and starts
// editing it. An edit already in progress is committed first.
func (s *Session) AddSibling(refID model.NodeID) (model.NodeID, bool) {
	if ref, ok := s.Tree().Node(refID); !ok || ref.IsRoot() {
		debug.Log("addSibling %s rejected", refID)
		return "", false
	}
	s.EndEdit()
	next, id, ok := s.store.AddSibling(s.Tree(), refID)
	if !ok {
		debug.Log("addSibling %s rejected", refID)
		return "", false
	}
	s.commit(next, "addSibling")
	s.selected, s.editing = id, id
	return id, true
}

// UpdateText commits text for id.
func (s *Session) UpdateText(id model.NodeID, text string) bool {
	next, ok := s.store.UpdateText(s.Tree(), id, text)
	if !ok {
		return false
	}
	s.commit(next, "updateText")
	return true
}

// UpdateDraft sets id's draft text, or clears it when text is nil. Drafts
// never touch history.
func (s *Session) UpdateDraft(id model.NodeID, text *string) bool {
	if text == nil {
		if _, ok := s.drafts[id]; !ok {
			return false
		}
		delete(s.drafts, id)
	} else {
		if !s.Tree().Has(id) {
			return false
		}
		s.drafts[id] = *text
	}
	s.relayout()
	return true
}

// ToggleCollapse flips id's expanded flag.
func (s *Session) ToggleCollapse(id model.NodeID) bool {
	next, ok := s.store.ToggleCollapse(s.Tree(), id)
	if !ok {
		return false
	}
	s.commit(next, "toggleCollapse")
	return true
}

// DeleteNode removes id and its subtree and selects the former parent.
func (s *Session) DeleteNode(id model.NodeID) bool {
	next, parent, ok := s.store.DeleteNode(s.Tree(), id)
	if !ok {
		debug.Log("deleteNode %s rejected", id)
		return false
	}
	s.commit(next, "deleteNode")
	s.selected = parent
	return true
}

// MoveNode reparents dragID relative to targetID.
func (s *Session) MoveNode(dragID, targetID model.NodeID, pos model.DropPosition) bool {
	next, ok := s.store.MoveNode(s.Tree(), dragID, targetID, pos)
	if !ok {
		debug.Log("moveNode %s %s %s rejected", dragID, pos, targetID)
		return false
	}
	s.commit(next, "moveNode")
	return true
}

// Undo steps back one snapshot.
func (s *Session) Undo() bool {
	if !s.hist.Undo() {
		return false
	}
	s.prune()
	s.relayout()
	return true
}

// Redo re-applies the last undone snapshot.
func (s *Session) Redo() bool {
	if !s.hist.Redo() {
		return false
	}
	s.prune()
	s.relayout()
	return true
}

// BeginEdit enters edit mode on id and selects it. Any edit already in
// progress is committed first.
func (s *Session) BeginEdit(id model.NodeID) bool {
	if !s.Tree().Has(id) {
		return false
	}
	if s.editing != "" && s.editing != id {
		s.EndEdit()
	}
	s.editing, s.selected = id, id
	return true
}

// EndEdit leaves edit mode, folding the node's draft into the tree with a
// single UpdateText. It reports whether a snapshot was pushed. Confirming,
// cancelling and losing focus all end up here.
func (s *Session) EndEdit() bool {
	id := s.editing
	if id == "" {
		return false
	}
	s.editing = ""
	draft, ok := s.drafts[id]
	if !ok {
		return false
	}
	delete(s.drafts, id)
	if s.UpdateText(id, draft) {
		return true
	}
	s.relayout()
	return false
}
