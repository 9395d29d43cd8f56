package layout

import "github.com/vanderheijden86/mindmap/pkg/model"

// ResolvedNode is a node as the renderer sees it: draft text applied and,
// when visible, its box.
type ResolvedNode struct {
	ID         model.NodeID   `json:"id"`
	Text       string         `json:"text"`
	ParentID   *model.NodeID  `json:"parent_id,omitempty"`
	Children   []model.NodeID `json:"children,omitempty"`
	Expanded   bool           `json:"expanded"`
	Depth      int            `json:"depth"`
	Drafting   bool           `json:"drafting,omitempty"`
	Positioned bool           `json:"positioned"`
	Box        *Box           `json:"box,omitempty"`
}

// Resolve joins the snapshot, the draft overlay and r. Visible nodes come
// first in layout order, followed by hidden nodes in id order.
func (r Result) Resolve(t model.Tree, drafts map[model.NodeID]string) []ResolvedNode {
	out := make([]ResolvedNode, 0, t.Len())
	add := func(n model.Node) {
		rn := ResolvedNode{
			ID:       n.ID,
			Text:     n.Text,
			ParentID: n.ParentID,
			Children: n.Children,
			Expanded: n.Expanded,
			Depth:    n.Depth,
		}
		if d, ok := drafts[n.ID]; ok {
			rn.Text = d
			rn.Drafting = true
		}
		if b, ok := r.Boxes[n.ID]; ok {
			rn.Positioned = true
			rn.Box = &b
		}
		out = append(out, rn)
	}

	for _, id := range r.Order {
		if n, ok := t.Node(id); ok {
			add(n)
		}
	}
	for _, id := range t.IDs() {
		if r.Visible(id) {
			continue
		}
		n, _ := t.Node(id)
		add(n)
	}
	return out
}
