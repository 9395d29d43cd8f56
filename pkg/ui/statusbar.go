package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mindmap/pkg/editor"
)

// statusLevel picks the style of the left-hand message.
type statusLevel int

const (
	statusHint statusLevel = iota
	statusInfo
	statusError
)

// sessionSummary is the right-hand side of the status bar: node count,
// undo and redo depth, zoom.
func sessionSummary(s *editor.Session, scale float64) string {
	past, future := s.HistoryLen()
	undo, redo := "undo –", "redo –"
	if s.CanUndo() {
		undo = fmt.Sprintf("undo %d", past)
	}
	if s.CanRedo() {
		redo = fmt.Sprintf("redo %d", future)
	}
	return fmt.Sprintf("%d nodes · %s · %s · %d%%", s.Tree().Len(), undo, redo, int(scale*100+0.5))
}

// renderStatus lays out one bar row. The right side wins when space runs
// out; the left is truncated with an ellipsis.
func renderStatus(th Theme, width int, left string, level statusLevel, right string) string {
	if width <= 0 {
		return ""
	}
	right = " " + right + " "
	rw := runewidth.StringWidth(right)
	if rw > width {
		right = runewidth.Truncate(right, width, "…")
		rw = runewidth.StringWidth(right)
	}

	avail := width - rw
	left = " " + left
	switch {
	case avail <= 0:
		left = ""
	case runewidth.StringWidth(left) > avail:
		left = runewidth.Truncate(left, avail, "…")
	}
	gap := max(avail-runewidth.StringWidth(left), 0)

	ls := th.StatusBar
	switch level {
	case statusInfo:
		ls = th.StatusInfo
	case statusError:
		ls = th.StatusError
	}
	return ls.Render(left) + th.StatusBar.Render(strings.Repeat(" ", gap)) + th.StatusRight.Render(right)
}
