package history_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/mindmap/pkg/history"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/testutil"
	"github.com/vanderheijden86/mindmap/pkg/tree"
)

func TestUndoRedoEmpty(t *testing.T) {
	h := history.New(model.Initial())
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("fresh history should have nothing to undo or redo")
	}
	if h.Undo() || h.Redo() {
		t.Fatal("Undo/Redo on empty stacks must be no-ops")
	}
	testutil.AssertTreesEqual(t, model.Initial(), h.Present())
}

func TestPushUndoRedo(t *testing.T) {
	s := tree.NewStore(&tree.SequentialIDs{})
	t0 := model.Initial()
	t1, _, _ := s.AddChild(t0, "root")
	t2, _ := s.UpdateText(t1, "child-2", "Visual Design")

	h := history.New(t0)
	h.Push(t1)
	h.Push(t2)

	if past, future := h.Len(); past != 2 || future != 0 {
		t.Fatalf("Len = (%d, %d), want (2, 0)", past, future)
	}

	if !h.Undo() {
		t.Fatal("Undo reported nothing to undo")
	}
	testutil.AssertTreesEqual(t, t1, h.Present())
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	if !h.Redo() {
		t.Fatal("Redo reported nothing to redo")
	}
	testutil.AssertTreesEqual(t, t2, h.Present())
	if h.CanRedo() {
		t.Error("redo stack should be empty again")
	}
}

func TestPushClearsFuture(t *testing.T) {
	s := tree.NewStore(&tree.SequentialIDs{})
	t0 := model.Initial()
	t1, _ := s.ToggleCollapse(t0, "child-1")
	t2, _ := s.ToggleCollapse(t0, "child-3")

	h := history.New(t0)
	h.Push(t1)
	h.Undo()
	h.Push(t2)

	if h.CanRedo() {
		t.Fatal("push after undo must clear the future")
	}
	h.Undo()
	testutil.AssertTreesEqual(t, t0, h.Present())
}

func TestLimitDropsOldest(t *testing.T) {
	s := tree.NewStore(&tree.SequentialIDs{})
	h := history.New(model.Initial())
	h.Limit = 2

	snaps := []model.Tree{h.Present()}
	for i := 0; i < 4; i++ {
		next, _, _ := s.AddChild(h.Present(), "root")
		h.Push(next)
		snaps = append(snaps, next)
	}
	if past, _ := h.Len(); past != 2 {
		t.Fatalf("past = %d, want 2", past)
	}
	h.Undo()
	h.Undo()
	if h.Undo() {
		t.Fatal("undo beyond the limit should be a no-op")
	}
	testutil.AssertTreesEqual(t, snaps[2], h.Present())
}

func TestReset(t *testing.T) {
	s := tree.NewStore(&tree.SequentialIDs{})
	h := history.New(model.Initial())
	next, _, _ := s.AddChild(h.Present(), "root")
	h.Push(next)
	h.Undo()

	fresh := testutil.Outline("solo")
	h.Reset(fresh)
	if h.CanUndo() || h.CanRedo() {
		t.Error("Reset should clear both stacks")
	}
	testutil.AssertTreesEqual(t, fresh, h.Present())
}

// Undoing every push returns to the initial snapshot, and redoing all of
// them returns to the final one.
func TestUndoRedoRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := tree.NewStore(&tree.SequentialIDs{})
		t0 := model.Initial()
		h := history.New(t0)

		n := rapid.IntRange(0, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			ids := h.Present().IDs()
			id := rapid.SampledFrom(ids).Draw(rt, "id")
			var next model.Tree
			var ok bool
			if rapid.Bool().Draw(rt, "add") {
				next, _, ok = s.AddChild(h.Present(), id)
			} else {
				next, ok = s.ToggleCollapse(h.Present(), id)
			}
			if ok {
				h.Push(next)
			}
		}
		final := h.Present()

		for h.Undo() {
		}
		if !h.Present().Equal(t0) {
			rt.Fatalf("full undo did not restore the initial snapshot")
		}
		for h.Redo() {
		}
		if !h.Present().Equal(final) {
			rt.Fatalf("full redo did not restore the final snapshot")
		}
	})
}
