package editor_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/testutil"
	"github.com/vanderheijden86/mindmap/pkg/tree"
)

func newSession(t model.Tree) *editor.Session {
	opts := editor.DefaultOptions()
	opts.IDs = &tree.SequentialIDs{Prefix: "n"}
	return editor.New(t, opts)
}

func ptr(s string) *string { return &s }

func pastLen(s *editor.Session) int {
	p, _ := s.HistoryLen()
	return p
}

func TestAddChildSelectsAndEdits(t *testing.T) {
	s := newSession(model.Initial())
	id, ok := s.AddChild("child-2")
	if !ok {
		t.Fatal("AddChild rejected child-2")
	}
	if s.SelectedID() != id || s.EditingID() != id {
		t.Errorf("selected=%q editing=%q, want %q", s.SelectedID(), s.EditingID(), id)
	}
	if !s.CanUndo() || pastLen(s) != 1 {
		t.Errorf("expected exactly one push, past=%d", pastLen(s))
	}
	if !s.Layout().Visible(id) {
		t.Error("new node should be laid out")
	}
}

func TestRejectedOpsDoNotPush(t *testing.T) {
	s := newSession(model.Initial())
	checks := map[string]bool{
		"delete root":     s.DeleteNode("root"),
		"sibling of root": func() bool { _, ok := s.AddSibling("root"); return ok }(),
		"child of ghost":  func() bool { _, ok := s.AddChild("ghost"); return ok }(),
		"text of ghost":   s.UpdateText("ghost", "x"),
		"same text":       s.UpdateText("root", "Central Topic"),
		"collapse ghost":  s.ToggleCollapse("ghost"),
		"move into child": s.MoveNode("child-1", "sub-1", model.DropInside),
	}
	for name, applied := range checks {
		if applied {
			t.Errorf("%s: reported as applied", name)
		}
	}
	if s.CanUndo() {
		t.Errorf("rejected operations pushed %d snapshots", pastLen(s))
	}
	testutil.AssertTreesEqual(t, model.Initial(), s.Tree())
}

func TestDeleteSelectsParent(t *testing.T) {
	s := newSession(model.Initial())
	s.Select("sub-2")
	if !s.DeleteNode("sub-2") {
		t.Fatal("DeleteNode rejected sub-2")
	}
	if s.SelectedID() != "child-1" {
		t.Errorf("selected = %q, want child-1", s.SelectedID())
	}
}

func TestDraftsAffectLayoutNotHistory(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A"))
	if !s.UpdateDraft("A", ptr("drafting")) {
		t.Fatal("UpdateDraft rejected A")
	}
	if s.CanUndo() {
		t.Error("drafts must not push history")
	}
	n, _ := s.Tree().Node("A")
	if n.Text != "A" {
		t.Error("draft leaked into the snapshot")
	}
	var found bool
	for _, rn := range s.Resolved() {
		if rn.ID == "A" {
			found = true
			if rn.Text != "drafting" || !rn.Drafting {
				t.Errorf("resolved A = %+v", rn)
			}
		}
	}
	if !found {
		t.Fatal("A missing from resolved nodes")
	}

	if !s.UpdateDraft("A", nil) {
		t.Error("clearing an existing draft should succeed")
	}
	if s.UpdateDraft("A", nil) {
		t.Error("clearing a missing draft is a no-op")
	}
	if s.UpdateDraft("ghost", ptr("x")) {
		t.Error("drafting an unknown node is a no-op")
	}
}

func TestEndEditCommitsOnce(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A"))
	s.BeginEdit("A")
	s.UpdateDraft("A", ptr("Al"))
	s.UpdateDraft("A", ptr("Alpha"))

	if !s.EndEdit() {
		t.Fatal("EndEdit did not commit the draft")
	}
	if pastLen(s) != 1 {
		t.Errorf("past = %d, want exactly one push", pastLen(s))
	}
	n, _ := s.Tree().Node("A")
	if n.Text != "Alpha" {
		t.Errorf("text = %q, want Alpha", n.Text)
	}
	if s.EditingID() != "" || len(s.Drafts()) != 0 {
		t.Error("edit state should be cleared")
	}

	s.Undo()
	n, _ = s.Tree().Node("A")
	if n.Text != "A" {
		t.Errorf("undo should restore A, got %q", n.Text)
	}
}

func TestEndEditWithoutChange(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A"))
	s.BeginEdit("A")
	if s.EndEdit() {
		t.Error("no draft means nothing to commit")
	}
	s.BeginEdit("A")
	s.UpdateDraft("A", ptr("A"))
	if s.EndEdit() {
		t.Error("unchanged draft should not push")
	}
	if s.CanUndo() || len(s.Drafts()) != 0 {
		t.Error("unchanged draft left state behind")
	}
	if s.EndEdit() {
		t.Error("EndEdit while not editing should be a no-op")
	}
}

func TestBeginEditCommitsPrevious(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A", "  B"))
	s.BeginEdit("A")
	s.UpdateDraft("A", ptr("Apple"))
	s.BeginEdit("B")

	n, _ := s.Tree().Node("A")
	if n.Text != "Apple" {
		t.Errorf("switching edits should commit A, got %q", n.Text)
	}
	if s.EditingID() != "B" || s.SelectedID() != "B" {
		t.Errorf("editing=%q selected=%q", s.EditingID(), s.SelectedID())
	}
}

func TestAddCommitsPendingDraft(t *testing.T) {
	tests := []struct {
		name string
		add  func(s *editor.Session) (model.NodeID, bool)
	}{
		{"child", func(s *editor.Session) (model.NodeID, bool) { return s.AddChild("root") }},
		{"sibling", func(s *editor.Session) (model.NodeID, bool) { return s.AddSibling("B") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(testutil.Outline("root", "  A", "  B"))
			s.BeginEdit("A")
			s.UpdateDraft("A", ptr("Apple"))

			id, ok := tt.add(s)
			if !ok {
				t.Fatal("add rejected")
			}
			if n, _ := s.Tree().Node("A"); n.Text != "Apple" {
				t.Errorf("A text = %q, want the draft committed", n.Text)
			}
			if _, ok := s.Draft("A"); ok {
				t.Error("A draft should be cleared")
			}
			if pastLen(s) != 2 {
				t.Errorf("past = %d, want updateText then add", pastLen(s))
			}
			if s.EditingID() != id {
				t.Errorf("editing = %q, want %q", s.EditingID(), id)
			}

			s.EndEdit()
			for _, n := range s.Resolved() {
				if n.ID == "A" && (n.Text != "Apple" || n.Drafting) {
					t.Errorf("resolved A = %q drafting=%v", n.Text, n.Drafting)
				}
			}
			if len(s.Drafts()) != 0 {
				t.Errorf("drafts left after EndEdit: %v", s.Drafts())
			}
		})
	}
}

func TestRejectedAddKeepsPendingEdit(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A"))
	s.BeginEdit("A")
	s.UpdateDraft("A", ptr("Apple"))

	if _, ok := s.AddChild("ghost"); ok {
		t.Fatal("AddChild under a missing node was applied")
	}
	if _, ok := s.AddSibling("root"); ok {
		t.Fatal("AddSibling of the root was applied")
	}
	if s.CanUndo() {
		t.Error("rejected adds should push nothing")
	}
	if d, ok := s.Draft("A"); !ok || d != "Apple" || s.EditingID() != "A" {
		t.Errorf("edit on A should stay pending: editing=%q draft=%q", s.EditingID(), d)
	}
}

func TestCollapseMovesHiddenSelection(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A", "    A1", "      A1a", "  B"))
	s.Select("A1a")

	s.ToggleCollapse("A1")
	if s.SelectedID() != "A1" {
		t.Errorf("selected = %q, want A1", s.SelectedID())
	}
	s.Select("A1a")
	s.ToggleCollapse("root")
	if s.SelectedID() != "root" {
		t.Errorf("selected = %q, want root", s.SelectedID())
	}
	s.ToggleCollapse("root")
	if !s.Navigate(editor.Right) {
		t.Error("navigation should work again from the visible node")
	}
}

func TestDraftsOnlyWhileEditing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newSession(testutil.Outline("root", "  A", "    A1", "  B"))
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(s.Tree().IDs()).Draw(rt, "id")
			switch rapid.IntRange(0, 8).Draw(rt, "op") {
			case 0:
				s.AddChild(id)
			case 1:
				s.AddSibling(id)
			case 2:
				s.BeginEdit(id)
			case 3:
				if e := s.EditingID(); e != "" {
					s.UpdateDraft(e, ptr(rapid.StringMatching(`[a-z ]{0,8}`).Draw(rt, "text")))
				}
			case 4:
				s.EndEdit()
			case 5:
				s.DeleteNode(id)
			case 6:
				s.ToggleCollapse(id)
			case 7:
				s.Undo()
			case 8:
				s.Redo()
			}

			editing := s.EditingID()
			for d := range s.Drafts() {
				if d != editing {
					rt.Fatalf("step %d: draft on %q while editing %q", i, d, editing)
				}
			}
			if editing == "" && len(s.Drafts()) != 0 {
				rt.Fatalf("step %d: drafts %v with no edit", i, s.Drafts())
			}
		}
		s.EndEdit()
		if len(s.Drafts()) != 0 {
			rt.Fatalf("drafts left after EndEdit: %v", s.Drafts())
		}
	})
}

func TestUndoPrunesMissingState(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A"))
	id, _ := s.AddChild("A")
	s.UpdateDraft(id, ptr("typing"))

	s.Undo()
	if s.SelectedID() != "" || s.EditingID() != "" {
		t.Errorf("selection should clear when the node disappears: sel=%q edit=%q", s.SelectedID(), s.EditingID())
	}
	if len(s.Drafts()) != 0 {
		t.Error("draft for a vanished node should be dropped")
	}

	s.Redo()
	if !s.Tree().Has(id) {
		t.Error("redo should bring the node back")
	}
}

func TestCollapseRootScenario(t *testing.T) {
	s := newSession(testutil.Outline("root", "  A", "    A1", "    A2", "  B"))
	s.ToggleCollapse("root")
	l := s.Layout()
	for _, id := range []model.NodeID{"A", "A1", "A2"} {
		if l.Visible(id) {
			t.Errorf("%s should be hidden", id)
		}
	}
	if b, ok := l.Box("root"); !ok || b.X != 0 || b.Y != 0 {
		t.Errorf("root box = %+v, %v", b, ok)
	}
}

func TestReset(t *testing.T) {
	s := newSession(model.Initial())
	s.AddChild("root")
	s.Reset(testutil.Outline("solo"))
	if s.CanUndo() || s.SelectedID() != "" || s.EditingID() != "" {
		t.Error("Reset should clear history and selection")
	}
	if got := s.Layout().Order; len(got) != 1 || got[0] != "solo" {
		t.Errorf("layout order = %v", got)
	}
}

func TestUndoRestoresCoordinates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newSession(model.Initial())
		before := s.Layout()

		ids := s.Tree().IDs()
		switch rapid.IntRange(0, 2).Draw(rt, "op") {
		case 0:
			s.AddChild(rapid.SampledFrom(ids).Draw(rt, "id"))
		case 1:
			s.ToggleCollapse(rapid.SampledFrom(ids).Draw(rt, "id"))
		case 2:
			s.DeleteNode(rapid.SampledFrom(ids).Draw(rt, "id"))
		}
		if !s.CanUndo() {
			return
		}
		s.Undo()
		after := s.Layout()
		if len(before.Order) != len(after.Order) {
			rt.Fatalf("visible count %d != %d", len(before.Order), len(after.Order))
		}
		for _, id := range before.Order {
			if before.Boxes[id] != after.Boxes[id] {
				rt.Fatalf("%s moved: %+v -> %+v", id, before.Boxes[id], after.Boxes[id])
			}
		}
	})
}
