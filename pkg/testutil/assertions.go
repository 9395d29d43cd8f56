package testutil

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// AssertValid verifies the snapshot satisfies every structural invariant.
func AssertValid(t testing.TB, tr model.Tree) {
	t.Helper()
	if err := model.Validate(tr); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

// AssertChildren verifies id's children, in order.
func AssertChildren(t testing.TB, tr model.Tree, id model.NodeID, want ...model.NodeID) {
	t.Helper()
	got := tr.Children(id)
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !slices.Equal(got, want) {
		t.Errorf("children of %s = %v, want %v", id, got, want)
	}
}

// AssertParent verifies id's parent.
func AssertParent(t testing.TB, tr model.Tree, id, want model.NodeID) {
	t.Helper()
	n, ok := tr.Node(id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	if got := n.Parent(); got != want {
		t.Errorf("parent of %s = %q, want %q", id, got, want)
	}
}

// AssertTreesEqual compares two snapshots node by node and reports a diff.
func AssertTreesEqual(t testing.TB, want, got model.Tree) {
	t.Helper()
	if want.RootID() != got.RootID() {
		t.Errorf("root id = %q, want %q", got.RootID(), want.RootID())
	}
	if diff := cmp.Diff(want.Nodes(), got.Nodes()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

// AssertSameIDs verifies both snapshots contain exactly the same ids.
func AssertSameIDs(t testing.TB, want, got model.Tree) {
	t.Helper()
	if diff := cmp.Diff(want.IDs(), got.IDs()); diff != "" {
		t.Errorf("id set mismatch (-want +got):\n%s", diff)
	}
}
