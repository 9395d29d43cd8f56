package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile is the colour profile of stdout, detected once.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// themeBg drops background colours below TrueColor so 16/256-colour
// terminals keep their own background.
func themeBg(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return c
}

// Theme holds the colours and styles of the map view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Edge      lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	Text        lipgloss.Style
	RootText    lipgloss.Style
	EditText    lipgloss.Style
	Placeholder lipgloss.Style
	NodeBorder  lipgloss.Style
	RootBorder  lipgloss.Style
	Selected    lipgloss.Style
	DragSource  lipgloss.Style
	DropTarget  lipgloss.Style
	EdgeLine    lipgloss.Style
	Marker      lipgloss.Style
	StatusBar   lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style
	StatusRight lipgloss.Style
	HelpFrame   lipgloss.Style
}

// NewTheme builds the theme. mode is "light", "dark" or "auto"; auto asks
// the renderer.
func NewTheme(r *lipgloss.Renderer, mode string) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	switch mode {
	case "light":
		r.SetHasDarkBackground(false)
	case "dark":
		r.SetHasDarkBackground(true)
	}

	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Accent:    lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#6272A4"},
		Edge:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}
	fg := lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}

	t.Text = r.NewStyle().Foreground(fg)
	t.RootText = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.EditText = r.NewStyle().Foreground(fg).Background(themeBg(t.Highlight))
	t.Placeholder = r.NewStyle().Foreground(t.Subtext).Italic(true)
	t.NodeBorder = r.NewStyle().Foreground(t.Border)
	t.RootBorder = r.NewStyle().Foreground(t.Primary)
	t.Selected = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.DragSource = r.NewStyle().Foreground(t.Subtext).Faint(true)
	t.DropTarget = r.NewStyle().Foreground(t.Accent).Bold(true)
	t.EdgeLine = r.NewStyle().Foreground(t.Edge)
	t.Marker = r.NewStyle().Foreground(t.Accent)
	t.StatusBar = r.NewStyle().
		Foreground(t.Subtext).
		Background(themeBg(lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1E1F29"}))
	t.StatusInfo = t.StatusBar.Foreground(fg)
	t.StatusError = t.StatusBar.Foreground(t.Danger).Bold(true)
	t.StatusRight = t.StatusBar.Foreground(t.Subtext)
	t.HelpFrame = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	return t
}

func (t Theme) paints() map[paint]lipgloss.Style {
	return map[paint]lipgloss.Style{
		paintEdge:        t.EdgeLine,
		paintBorder:      t.NodeBorder,
		paintRootBorder:  t.RootBorder,
		paintSelected:    t.Selected,
		paintDragSource:  t.DragSource,
		paintDrop:        t.DropTarget,
		paintText:        t.Text,
		paintRootText:    t.RootText,
		paintEditText:    t.EditText,
		paintPlaceholder: t.Placeholder,
		paintMarker:      t.Marker,
	}
}
