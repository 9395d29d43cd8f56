package layout_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/testutil"
	"github.com/vanderheijden86/mindmap/pkg/tree"
)

// fixed measures 10px per byte and 30px per line, before clamping.
var fixed = layout.MeasureFunc(func(text string, c layout.Constraints) layout.Size {
	lines := strings.Count(text, "\n") + 1
	return layout.Size{Width: float64(10 * len(text)), Height: float64(30 * lines)}
})

func compute(t model.Tree, drafts map[model.NodeID]string) layout.Result {
	return layout.Compute(t, drafts, fixed, layout.DefaultOptions())
}

func mustBox(t *testing.T, r layout.Result, id model.NodeID) layout.Box {
	t.Helper()
	b, ok := r.Box(id)
	if !ok {
		t.Fatalf("%s has no box", id)
	}
	return b
}

func TestRootAtOrigin(t *testing.T) {
	r := compute(model.Initial(), nil)
	root := mustBox(t, r, "root")
	if root.X != 0 || root.Y != 0 {
		t.Errorf("root at (%v, %v), want (0, 0)", root.X, root.Y)
	}
	if r.Order[0] != "root" {
		t.Errorf("Order[0] = %s, want root", r.Order[0])
	}
}

func TestTwoChildrenCoordinates(t *testing.T) {
	r := compute(testutil.Outline("root", "  A", "  B"), nil)

	if got := r.Extents["root"]; got != 100 {
		t.Errorf("root extent = %v, want 100", got)
	}
	a := mustBox(t, r, "A")
	b := mustBox(t, r, "B")
	if a.Y != -30 || b.Y != 30 {
		t.Errorf("A.y=%v B.y=%v, want -30 and 30", a.Y, b.Y)
	}
	// 0 + 50/2 + 60 + 50/2
	if a.X != 110 || b.X != 110 {
		t.Errorf("A.x=%v B.x=%v, want 110", a.X, b.X)
	}
	if a.Depth != 1 {
		t.Errorf("A depth = %d", a.Depth)
	}
}

func TestSizeClamping(t *testing.T) {
	tr := testutil.Outline("root", "  x")
	long := strings.Repeat("w", 100)
	r := compute(tr, map[model.NodeID]string{"x": long})

	x := mustBox(t, r, "x")
	if x.Width != 400 {
		t.Errorf("width = %v, want clamp to 400", x.Width)
	}
	if x.Height != 40 {
		t.Errorf("height = %v, want floor of 40", x.Height)
	}
	root := mustBox(t, r, "root")
	if root.Width != 50 {
		t.Errorf("root width = %v, want min 50", root.Width)
	}
}

func TestDraftOverlayIsMeasured(t *testing.T) {
	tr := testutil.Outline("root", "  A")
	plain := mustBox(t, compute(tr, nil), "A")
	drafted := mustBox(t, compute(tr, map[model.NodeID]string{"A": "a much longer draft"}), "A")
	if drafted.Width <= plain.Width {
		t.Errorf("draft width %v should exceed committed width %v", drafted.Width, plain.Width)
	}
	n, _ := tr.Node("A")
	if n.Text != "A" {
		t.Error("draft leaked into the snapshot")
	}
}

func TestCollapsedRootHidesEverything(t *testing.T) {
	s := tree.NewStore(nil)
	tr := testutil.Outline("root", "  A", "    A1", "    A2", "  B")
	tr, _ = s.ToggleCollapse(tr, "root")

	r := compute(tr, nil)
	for _, id := range []model.NodeID{"A", "A1", "A2", "B"} {
		if r.Visible(id) {
			t.Errorf("%s should have no coordinates", id)
		}
	}
	root := mustBox(t, r, "root")
	if root.X != 0 || root.Y != 0 {
		t.Errorf("root moved to (%v, %v)", root.X, root.Y)
	}
	if len(r.Order) != 1 {
		t.Errorf("Order = %v, want only root", r.Order)
	}
}

func TestCollapsedSubtreeNotMeasured(t *testing.T) {
	tr := testutil.Outline("root", "  A (collapsed)", "    A1", "  B")
	var measured []string
	m := layout.MeasureFunc(func(text string, c layout.Constraints) layout.Size {
		measured = append(measured, text)
		return fixed(text, c)
	})
	r := layout.Compute(tr, nil, m, layout.DefaultOptions())
	for _, txt := range measured {
		if txt == "A1" {
			t.Fatal("collapsed descendant was measured")
		}
	}
	if _, ok := r.Extents["A1"]; ok {
		t.Error("collapsed descendant has an extent")
	}
	if r.Extents["A"] != 40 {
		t.Errorf("collapsed extent = %v, want own height 40", r.Extents["A"])
	}
}

func TestTallParentCentersShortChildren(t *testing.T) {
	tr := testutil.Outline("root", "  A")
	r := compute(tr, map[model.NodeID]string{"root": "1\n2\n3\n4"})
	root := mustBox(t, r, "root")
	if root.Height != 120 || r.Extents["root"] != 120 {
		t.Fatalf("root height=%v extent=%v", root.Height, r.Extents["root"])
	}
	// cursor starts at -60; A reserves 40 so its centre is -40.
	if a := mustBox(t, r, "A"); a.Y != -40 {
		t.Errorf("A.y = %v, want -40", a.Y)
	}
}

func TestOrderIsPreOrder(t *testing.T) {
	tr := testutil.Outline("root", "  A", "    A1", "    A2", "  B (collapsed)", "    B1", "  C")
	got := compute(tr, nil).Order
	want := []model.NodeID{"root", "A", "A1", "A2", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order = %v, want %v", got, want)
		}
	}
}

func TestBounds(t *testing.T) {
	if _, ok := (layout.Result{}).Bounds(); ok {
		t.Error("empty result should have no bounds")
	}
	r := compute(testutil.Outline("root", "  A", "  B"), nil)
	b, ok := r.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	want := layout.Rect{MinX: -25, MinY: -50, MaxX: 135, MaxY: 50}
	if b != want {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
}

func TestResolve(t *testing.T) {
	tr := testutil.Outline("root", "  A (collapsed)", "    A1", "  B")
	drafts := map[model.NodeID]string{"B": "draft"}
	r := compute(tr, drafts)

	nodes := r.Resolve(tr, drafts)
	if len(nodes) != 4 {
		t.Fatalf("resolved %d nodes, want 4", len(nodes))
	}
	byID := map[model.NodeID]layout.ResolvedNode{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	if !byID["B"].Drafting || byID["B"].Text != "draft" {
		t.Errorf("B = %+v, want draft text", byID["B"])
	}
	if byID["A1"].Positioned || byID["A1"].Box != nil {
		t.Errorf("A1 should be unpositioned: %+v", byID["A1"])
	}
	if nodes[len(nodes)-1].ID != "A1" {
		t.Errorf("hidden nodes should come last, got %s", nodes[len(nodes)-1].ID)
	}
}

func TestOptionsScale(t *testing.T) {
	o := layout.DefaultOptions().Scale(0.5)
	if o.HorizontalGap != 30 || o.MaxNodeWidth != 200 {
		t.Errorf("Scale(0.5) = %+v", o)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:         rapid.Int64Range(1, 10_000).Draw(rt, "seed"),
			CollapseRate: 0.15,
		})
		tr := gen.Random(rapid.IntRange(0, 60).Draw(rt, "size"))

		a := compute(tr, nil)
		b := compute(tr, nil)
		if len(a.Order) != len(b.Order) {
			rt.Fatalf("order lengths differ")
		}
		for i, id := range a.Order {
			if b.Order[i] != id || a.Boxes[id] != b.Boxes[id] {
				rt.Fatalf("layout differs at %s: %+v vs %+v", id, a.Boxes[id], b.Boxes[id])
			}
		}
	})
}

func TestVisibleBoxesNeverOverlap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:         rapid.Int64Range(1, 10_000).Draw(rt, "seed"),
			CollapseRate: 0.1,
		})
		tr := gen.Random(rapid.IntRange(1, 40).Draw(rt, "size"))
		r := compute(tr, nil)

		for i, a := range r.Order {
			for _, b := range r.Order[i+1:] {
				if r.Boxes[a].Rect().Overlaps(r.Boxes[b].Rect()) {
					rt.Fatalf("%s %+v overlaps %s %+v", a, r.Boxes[a], b, r.Boxes[b])
				}
			}
		}
	})
}
