package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	AddChild   key.Binding
	AddSibling key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Collapse   key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Copy       key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PanUp      key.Binding
	PanDown    key.Binding
	PanLeft    key.Binding
	PanRight   key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Fit        key.Binding
	Deselect   key.Binding
	Help       key.Binding
	Quit       key.Binding

	// Edit mode.
	Commit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		AddChild:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "add child")),
		AddSibling: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add sibling")),
		Delete:     key.NewBinding(key.WithKeys("backspace", "delete", "x"), key.WithHelp("del", "delete node")),
		Edit:       key.NewBinding(key.WithKeys(" ", "e", "f2"), key.WithHelp("space", "edit text")),
		Collapse:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse/expand")),
		Undo:       key.NewBinding(key.WithKeys("ctrl+z", "u"), key.WithHelp("ctrl+z", "undo")),
		Redo:       key.NewBinding(key.WithKeys("ctrl+y", "ctrl+r"), key.WithHelp("ctrl+y", "redo")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "select above")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "select below")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "select parent")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "select child")),
		PanUp:      key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "pan up")),
		PanDown:    key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "pan down")),
		PanLeft:    key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "pan left")),
		PanRight:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "pan right")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Fit:        key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "fit map")),
		Deselect:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect / cancel drag")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Commit: key.NewBinding(key.WithKeys("enter", "esc", "tab"), key.WithHelp("enter/esc", "finish editing")),
	}
}

// groups returns the bindings as titled sections for the help overlay.
func (k keyMap) groups() []helpGroup {
	return []helpGroup{
		{"Editing", []key.Binding{k.AddChild, k.AddSibling, k.Edit, k.Commit, k.Delete, k.Collapse, k.Copy}},
		{"History", []key.Binding{k.Undo, k.Redo}},
		{"Navigation", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Deselect}},
		{"View", []key.Binding{k.PanUp, k.PanDown, k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut, k.Fit}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}
}
