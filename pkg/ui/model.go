// Package ui is the terminal mind-map editor. A Bubble Tea model draws the
// session's layout on a cell canvas through a pan and zoom viewport, and
// maps keys and mouse gestures onto session operations.
package ui

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/tree"
	"github.com/vanderheijden86/mindmap/pkg/viewport"
)

// CellLayout is the layout spacing used on a terminal. World units are
// cells and lines.
func CellLayout() layout.Options {
	return layout.Options{
		MaxNodeWidth:    40,
		MinNodeWidth:    8,
		MinNodeHeight:   3,
		HorizontalGap:   6,
		VerticalSpacing: 1,
	}
}

const (
	cellHitPadding = 0.5
	panStepX       = 4
	panStepY       = 2
	cursorRune     = '▏'
)

func cellFitLimits() viewport.FitLimits {
	return viewport.FitLimits{Padding: 2, MinExtent: 10, MinScale: 0.3, MaxScale: 1}
}

type pointer struct{ x, y int }

// copyResultMsg reports the outcome of a clipboard write.
type copyResultMsg struct {
	text string
	err  error
}

// Model is the editor's Bubble Tea model. The session is shared by copies
// of the model; the viewport and UI state are not.
type Model struct {
	sess   *editor.Session
	vp     viewport.Viewport
	keys   keyMap
	theme  Theme
	styles map[paint]lipgloss.Style
	input  textinput.Model

	width  int
	height int
	ready  bool

	showHelp  bool
	helpStyle string
	helpView  string

	status      string
	statusLevel statusLevel

	press   *pointer // where the left button went down
	last    pointer
	moved   bool
	panning bool

	copy func(string) error
}

// New opens an editor on t.
func New(t model.Tree, cfg config.Config) Model {
	sess := editor.New(t, editor.Options{
		Layout:       CellLayout(),
		Measurer:     measure.NewCached(measure.Terminal()),
		HistoryLimit: cfg.History.Limit,
		HitPadding:   cellHitPadding,
	})

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = tree.DefaultPlaceholder
	in.CharLimit = 500

	th := NewTheme(nil, cfg.UI.Theme)
	m := Model{
		sess:      sess,
		vp:        viewport.Centered(0, 0),
		keys:      defaultKeys(),
		theme:     th,
		styles:    th.paints(),
		input:     in,
		showHelp:  cfg.UI.ShowHelp,
		helpStyle: cfg.UI.Theme,
		copy:      clipboard.WriteAll,
	}
	m.syncTransform()
	return m
}

// Session returns the editing session behind the model.
func (m Model) Session() *editor.Session { return m.sess }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.sess.EditingID() != "" {
			return m.updateEdit(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		if !m.showHelp {
			m.updateMouse(msg)
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus("copy failed: "+msg.err.Error(), statusError)
		} else {
			m.setStatus("copied "+strconv.Quote(clip(msg.text, 24)), statusInfo)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	k := m.keys
	sel := m.sess.SelectedID()

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = true
		m.refreshHelp()

	case key.Matches(msg, k.AddChild):
		parent := sel
		if parent == "" {
			parent = m.sess.Tree().RootID()
		}
		if id, ok := m.sess.AddChild(parent); ok {
			cmd := m.beginEdit(id)
			return m, cmd
		}
		m.setStatus("cannot add a child here", statusError)

	case key.Matches(msg, k.AddSibling):
		if !m.needSelection(sel) {
			break
		}
		if id, ok := m.sess.AddSibling(sel); ok {
			cmd := m.beginEdit(id)
			return m, cmd
		}
		m.setStatus("the root has no siblings", statusError)

	case key.Matches(msg, k.Edit):
		if m.needSelection(sel) {
			cmd := m.beginEdit(sel)
			return m, cmd
		}

	case key.Matches(msg, k.Delete):
		if !m.needSelection(sel) {
			break
		}
		label := m.nodeLabel(sel)
		if m.sess.DeleteNode(sel) {
			m.setStatus("deleted "+label, statusInfo)
			m.ensureVisible(m.sess.SelectedID())
		} else {
			m.setStatus("the root cannot be deleted", statusError)
		}

	case key.Matches(msg, k.Collapse):
		if m.needSelection(sel) && !m.sess.ToggleCollapse(sel) {
			m.setStatus("nothing to collapse", statusHint)
		}

	case key.Matches(msg, k.Undo):
		if !m.sess.Undo() {
			m.setStatus("nothing to undo", statusHint)
		}

	case key.Matches(msg, k.Redo):
		if !m.sess.Redo() {
			m.setStatus("nothing to redo", statusHint)
		}

	case key.Matches(msg, k.Copy):
		if m.needSelection(sel) {
			return m, m.copyCmd(m.nodeText(sel))
		}

	case key.Matches(msg, k.Up):
		m.navigate(editor.Up)
	case key.Matches(msg, k.Down):
		m.navigate(editor.Down)
	case key.Matches(msg, k.Left):
		m.navigate(editor.Left)
	case key.Matches(msg, k.Right):
		m.navigate(editor.Right)

	case key.Matches(msg, k.PanUp):
		m.setViewport(m.vp.Pan(0, panStepY))
	case key.Matches(msg, k.PanDown):
		m.setViewport(m.vp.Pan(0, -panStepY))
	case key.Matches(msg, k.PanLeft):
		m.setViewport(m.vp.Pan(panStepX, 0))
	case key.Matches(msg, k.PanRight):
		m.setViewport(m.vp.Pan(-panStepX, 0))

	case key.Matches(msg, k.ZoomIn):
		m.zoom(viewport.ZoomStep)
	case key.Matches(msg, k.ZoomOut):
		m.zoom(1 / viewport.ZoomStep)
	case key.Matches(msg, k.Fit):
		m.fit()

	case key.Matches(msg, k.Deselect):
		if _, ok := m.sess.Dragging(); ok {
			m.sess.CancelDrag()
			m.press, m.panning = nil, false
			m.setStatus("drag cancelled", statusHint)
		} else {
			m.sess.ClearSelection()
		}
	}
	return m, nil
}

// updateEdit routes keys to the text input while a node is being edited.
// Every change to the value becomes the node's draft.
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.endEdit()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Commit) {
		m.endEdit()
		return m, nil
	}

	id := m.sess.EditingID()
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.sess.UpdateDraft(id, &v)
		m.ensureVisible(id)
	}
	return m, cmd
}

func (m *Model) beginEdit(id model.NodeID) tea.Cmd {
	if !m.sess.BeginEdit(id) {
		return nil
	}
	text, ok := m.sess.Draft(id)
	if !ok {
		n, _ := m.sess.Tree().Node(id)
		text = n.Text
		if text == tree.DefaultPlaceholder {
			text = ""
		}
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
	m.ensureVisible(id)
	return m.input.Focus()
}

func (m *Model) endEdit() {
	id := m.sess.EditingID()
	m.input.Blur()
	m.input.Reset()
	if m.sess.EndEdit() {
		debug.Logw("ui: edit committed", "id", id)
	}
}

func (m *Model) needSelection(sel model.NodeID) bool {
	if sel == "" {
		m.setStatus("select a node first (arrow keys or click)", statusHint)
		return false
	}
	return true
}

func (m *Model) navigate(dir editor.Direction) {
	if m.sess.SelectedID() == "" {
		if !m.sess.Select(m.sess.Tree().RootID()) {
			return
		}
	} else if !m.sess.Navigate(dir) {
		return
	}
	m.ensureVisible(m.sess.SelectedID())
}

func (m *Model) copyCmd(text string) tea.Cmd {
	write := m.copy
	return func() tea.Msg {
		return copyResultMsg{text: text, err: write(text)}
	}
}

func (m *Model) setStatus(s string, level statusLevel) {
	m.status, m.statusLevel = s, level
}

// nodeText is the text a node shows: its draft if it has one.
func (m *Model) nodeText(id model.NodeID) string {
	if d, ok := m.sess.Draft(id); ok {
		return d
	}
	n, _ := m.sess.Tree().Node(id)
	return n.Text
}

func (m *Model) nodeLabel(id model.NodeID) string {
	return strconv.Quote(clip(m.nodeText(id), 24))
}

func clip(s string, w int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, w, "…")
}

// Viewport.

func (m Model) canvasHeight() int { return max(m.height-1, 0) }

func (m *Model) resize(w, h int) {
	oldW, oldH := m.width, m.canvasHeight()
	m.width, m.height = w, h
	if !m.ready {
		m.ready = true
		m.fit()
	} else {
		m.setViewport(m.vp.Pan(float64(w-oldW)/2, float64(m.canvasHeight()-oldH)/2))
	}
	if m.showHelp {
		m.refreshHelp()
	}
}

func (m *Model) setViewport(vp viewport.Viewport) {
	m.vp = vp
	m.syncTransform()
}

// syncTransform points drag hit testing at the current viewport. Pointer
// samples arrive as cell centres.
func (m *Model) syncTransform() {
	m.sess.SetScreenToWorld(m.vp.ScreenToWorld)
}

func (m *Model) fit() {
	m.setViewport(viewport.FitResult(m.sess.Layout(),
		float64(m.width), float64(m.canvasHeight()), cellFitLimits()))
}

func (m *Model) zoom(f float64) {
	m.setViewport(m.vp.ZoomAt(f, float64(m.width)/2, float64(m.canvasHeight())/2))
}

func cellOf(v float64) int { return int(math.Floor(v + 0.5)) }

// screenRect returns the cells covered by b as [x0,x1)×[y0,y1).
func (m Model) screenRect(b layout.Box) (x0, y0, x1, y1 int) {
	l, t := m.vp.WorldToScreen(b.Left(), b.Top())
	r, btm := m.vp.WorldToScreen(b.Right(), b.Bottom())
	return cellOf(l), cellOf(t), cellOf(r), cellOf(btm)
}

// ensureVisible pans the least amount that brings id's box on screen.
func (m *Model) ensureVisible(id model.NodeID) {
	if !m.ready {
		return
	}
	b, ok := m.sess.Layout().Box(id)
	if !ok {
		return
	}
	x0, y0, x1, y1 := m.screenRect(b)
	w, h := m.width, m.canvasHeight()
	dx, dy := 0, 0
	if x1 > w {
		dx = w - x1
	}
	if x0+dx < 0 {
		dx = -x0
	}
	if y1 > h {
		dy = h - y1
	}
	if y0+dy < 0 {
		dy = -y0
	}
	if dx != 0 || dy != 0 {
		m.setViewport(m.vp.Pan(float64(dx), float64(dy)))
	}
}

// hit returns the visible node under cell (x, y).
func (m Model) hit(x, y int) model.NodeID {
	wx, wy := m.vp.ScreenToWorld(float64(x)+0.5, float64(y)+0.5)
	lay := m.sess.Layout()
	for i := len(lay.Order) - 1; i >= 0; i-- {
		id := lay.Order[i]
		if lay.Boxes[id].Contains(wx, wy, 0) {
			return id
		}
	}
	return ""
}

// Mouse.

func (m *Model) updateMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.setViewport(m.vp.ZoomAt(viewport.ZoomStep, float64(msg.X)+0.5, float64(msg.Y)+0.5))
		return
	case tea.MouseButtonWheelDown:
		m.setViewport(m.vp.ZoomAt(1/viewport.ZoomStep, float64(msg.X)+0.5, float64(msg.Y)+0.5))
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointerDown(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		m.pointerMove(msg.X, msg.Y)
	case tea.MouseActionRelease:
		m.pointerUp()
	}
}

// pointerDown selects the node under the pointer and arms a drag, or arms a
// pan when the press lands on empty canvas. Any edit in progress is
// committed first.
func (m *Model) pointerDown(x, y int) {
	if m.sess.EditingID() != "" {
		m.endEdit()
	}
	m.status = ""
	m.press = &pointer{x, y}
	m.last = pointer{x, y}
	m.moved = false

	id := m.hit(x, y)
	if id == "" {
		m.sess.ClearSelection()
		m.panning = true
		return
	}
	m.sess.Select(id)
	m.sess.BeginDrag(id)
}

func (m *Model) pointerMove(x, y int) {
	if m.press == nil || (!m.moved && x == m.press.x && y == m.press.y) {
		return
	}
	m.moved = true
	if m.panning {
		m.setViewport(m.vp.Pan(float64(x-m.last.x), float64(y-m.last.y)))
		m.last = pointer{x, y}
		return
	}
	if _, ok := m.sess.Dragging(); ok {
		m.sess.DragTo(float64(x)+0.5, float64(y)+0.5)
	}
}

// pointerUp drops a moved drag. A press released in place is a click and
// only selects.
func (m *Model) pointerUp() {
	defer func() {
		m.press, m.panning, m.moved = nil, false, false
	}()
	dragID, ok := m.sess.Dragging()
	if m.press == nil || !ok {
		return
	}
	if !m.moved {
		m.sess.CancelDrag()
		return
	}
	target, pos, pending := m.sess.DropTarget()
	label := m.nodeLabel(dragID)
	switch {
	case m.sess.Drop():
		m.setStatus(fmt.Sprintf("moved %s %s %s", label, pos, m.nodeLabel(target)), statusInfo)
	case pending:
		m.setStatus("cannot move "+label+" there", statusError)
	default:
		m.setStatus("no drop target", statusHint)
	}
}

// Rendering.

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	defer metrics.Timer(metrics.UIRender)()

	h := m.canvasHeight()
	var body string
	if m.showHelp {
		body = m.helpOverlay(h)
	} else {
		body = m.drawMap(h).render(m.styles)
	}
	return body + "\n" + m.statusBar()
}

func (m *Model) refreshHelp() {
	width := min(m.width-4, 84)
	m.helpView = m.theme.HelpFrame.Render(renderHelp(helpMarkdown(m.keys.groups()), width, m.helpStyle))
}

func (m Model) helpOverlay(h int) string {
	out := lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, m.helpView)
	lines := strings.Split(out, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusBar() string {
	left, level := m.status, m.statusLevel
	dragID, dragging := m.sess.Dragging()
	switch {
	case m.sess.EditingID() != "":
		left, level = "EDIT  enter or esc to finish", statusInfo
	case dragging && m.moved:
		left, level = "DRAG  "+m.nodeLabel(dragID), statusInfo
		if target, pos, ok := m.sess.DropTarget(); ok {
			left += fmt.Sprintf(" → %s %s", pos, m.nodeLabel(target))
		}
	case left == "":
		left = "? help · tab child · enter sibling · space edit"
	}
	return renderStatus(m.theme, m.width, left, level, sessionSummary(m.sess, m.vp.Scale))
}

// drawMap paints edges first, then boxes over them, then drop markers.
func (m Model) drawMap(h int) *canvas {
	c := newCanvas(m.width, h)
	lay := m.sess.Layout()
	t := m.sess.Tree()

	for _, id := range lay.Order {
		n, _ := t.Node(id)
		if !n.Expanded {
			continue
		}
		_, py0, px1, py1 := m.screenRect(lay.Boxes[id])
		py := mid(py0, py1)
		for _, cid := range n.Children {
			cb, ok := lay.Box(cid)
			if !ok {
				continue
			}
			cx0, cy0, _, cy1 := m.screenRect(cb)
			end := cx0 - 1
			c.elbow(px1, py, px1+(end-px1)/2, end, mid(cy0, cy1))
		}
	}

	dragID, dragging := m.sess.Dragging()
	dropID, dropPos, hasDrop := m.sess.DropTarget()
	for _, rn := range m.sess.Resolved() {
		if !rn.Positioned {
			break
		}
		border, text := paintBorder, paintText
		if rn.ParentID == nil {
			border, text = paintRootBorder, paintRootText
		}
		switch {
		case hasDrop && rn.ID == dropID && dropPos == model.DropInside:
			border = paintDrop
		case dragging && rn.ID == dragID:
			border, text = paintDragSource, paintDragSource
		case rn.ID == m.sess.SelectedID():
			border = paintSelected
		}
		m.drawNode(c, rn, border, text)
	}

	if hasDrop && dropPos != model.DropInside {
		if b, ok := lay.Box(dropID); ok {
			x0, y0, x1, y1 := m.screenRect(b)
			row := y1
			if dropPos == model.DropBefore {
				row = y0 - 1
			}
			for x := x0; x < x1; x++ {
				c.set(x, row, '━', paintDrop)
			}
		}
	}
	return c
}

func mid(y0, y1 int) int { return y0 + (y1-y0-1)/2 }

func (m Model) drawNode(c *canvas, rn layout.ResolvedNode, border, textPaint paint) {
	x0, y0, x1, y1 := m.screenRect(*rn.Box)
	if x1 <= 0 || y1 <= 0 || x0 >= c.w || y0 >= c.h {
		return
	}

	text := rn.Text
	extra := 0
	if rn.ID == m.sess.EditingID() {
		text, textPaint = m.editText()
		extra = 1
	}

	if !rn.Expanded && len(rn.Children) > 0 {
		c.text(x1, mid(y0, y1), fmt.Sprintf("▸%d", len(rn.Children)), 4, paintMarker)
	}

	// Too small for a frame: one bracketed row.
	if y1-y0 < 3 || x1-x0 < 5 {
		row := mid(y0, y1)
		c.fill(x0, row, x1, row+1)
		first, _, _ := strings.Cut(text, "\n")
		c.set(x0, row, '[', border)
		used := c.text(x0+1, row, first, max(x1-x0-2, 1), textPaint)
		c.set(x0+1+used, row, ']', border)
		return
	}

	c.fill(x0, y0, x1, y1)
	c.frame(x0, y0, x1, y1, border)

	pad := measure.Terminal().PadX
	tx, innerW := x0+pad, x1-x0-2*pad
	if innerW < 1 {
		tx, innerW = x0+1, x1-x0-2
	}
	innerW += extra
	rows := y1 - y0 - 2

	lines := measure.WrapCells(text, max(int(rn.Box.Width)-2*pad+extra, 1))
	if len(lines) > rows {
		lines = lines[:rows]
		lines[rows-1] += "…"
	}
	top := y0 + 1 + (rows-len(lines))/2
	for i, l := range lines {
		if runewidth.StringWidth(l) > innerW {
			l = runewidth.Truncate(l, innerW, "…")
		}
		c.text(tx, top+i, l, innerW, textPaint)
	}
}

// editText is the edited node's text with a cursor at the input position,
// or the placeholder when the input is empty.
func (m Model) editText() (string, paint) {
	v := m.input.Value()
	if v == "" {
		return string(cursorRune) + m.input.Placeholder, paintPlaceholder
	}
	r := []rune(v)
	pos := min(max(m.input.Position(), 0), len(r))
	return string(r[:pos]) + string(cursorRune) + string(r[pos:]), paintEditText
}

// Run starts the editor on the terminal and blocks until it exits.
func Run(m Model, mouse bool) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set MINDMAP_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MINDMAP_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()
				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
