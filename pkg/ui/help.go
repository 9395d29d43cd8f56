package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
)

type helpGroup struct {
	title    string
	bindings []key.Binding
}

// helpMarkdown lists every binding as markdown tables, one per group.
func helpMarkdown(groups []helpGroup) string {
	var sb strings.Builder
	sb.WriteString("# Mind map\n\n")
	sb.WriteString("Drag a node with the mouse to move it: drop on the upper part of a node to place it before, ")
	sb.WriteString("the lower part to place it after, the middle to make it a child.\n\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n|---|---|\n", g.title)
		for _, b := range g.bindings {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Press any key to close.\n")
	return sb.String()
}

// renderHelp renders md for a terminal width. Glamour failures fall back to
// the raw markdown.
func renderHelp(md string, width int, style string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(max(width-4, 20))}
	switch style {
	case "light", "dark":
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}
