package export

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// LayoutDump is the machine-readable view of a laid-out document.
type LayoutDump struct {
	Root    model.NodeID          `json:"root"`
	Options layout.Options        `json:"options"`
	Bounds  *layout.Rect          `json:"bounds,omitempty"`
	Nodes   []layout.ResolvedNode `json:"nodes"`
}

// NewLayoutDump resolves t against res.
func NewLayoutDump(t model.Tree, drafts map[model.NodeID]string, res layout.Result, opts layout.Options) LayoutDump {
	d := LayoutDump{
		Root:    t.RootID(),
		Options: opts,
		Nodes:   res.Resolve(t, drafts),
	}
	if b, ok := res.Bounds(); ok {
		d.Bounds = &b
	}
	return d
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(w io.Writer, d LayoutDump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
