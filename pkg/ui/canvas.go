package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type paint uint8

const (
	paintNone paint = iota
	paintEdge
	paintBorder
	paintRootBorder
	paintSelected
	paintDragSource
	paintDrop
	paintText
	paintRootText
	paintEditText
	paintPlaceholder
	paintMarker
)

// Edge direction bits. A cell's rune is picked from the union of the
// directions drawn through it, so crossing and branching lines join up.
const (
	dirUp uint8 = 1 << iota
	dirDown
	dirLeft
	dirRight
)

var lineRunes = [16]rune{
	0:                                    ' ',
	dirUp:                                '│',
	dirDown:                              '│',
	dirUp | dirDown:                      '│',
	dirLeft:                              '─',
	dirRight:                             '─',
	dirLeft | dirRight:                   '─',
	dirDown | dirRight:                   '╭',
	dirDown | dirLeft:                    '╮',
	dirUp | dirRight:                     '╰',
	dirUp | dirLeft:                      '╯',
	dirUp | dirDown | dirRight:           '├',
	dirUp | dirDown | dirLeft:            '┤',
	dirLeft | dirRight | dirDown:         '┬',
	dirLeft | dirRight | dirUp:           '┴',
	dirUp | dirDown | dirLeft | dirRight: '┼',
}

type cell struct {
	r     rune
	paint paint
	lines uint8 // edge directions; used when r is zero
	cont  bool  // right half of a wide rune
}

// canvas is a fixed grid of terminal cells. Drawing outside it is clipped.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	return &canvas{w: w, h: h, cells: make([]cell, w*h)}
}

func (c *canvas) in(x, y int) bool { return x >= 0 && y >= 0 && x < c.w && y < c.h }

func (c *canvas) at(x, y int) *cell { return &c.cells[y*c.w+x] }

func (c *canvas) set(x, y int, r rune, p paint) {
	if !c.in(x, y) {
		return
	}
	*c.at(x, y) = cell{r: r, paint: p}
}

// line adds edge directions to a cell, unless something solid is there.
func (c *canvas) line(x, y int, dirs uint8) {
	if !c.in(x, y) {
		return
	}
	cl := c.at(x, y)
	if cl.r != 0 || cl.cont {
		return
	}
	cl.lines |= dirs
	cl.paint = paintEdge
}

func (c *canvas) hline(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		var d uint8
		if x > x1 {
			d |= dirLeft
		}
		if x < x2 {
			d |= dirRight
		}
		if x1 == x2 {
			d = dirLeft | dirRight
		}
		c.line(x, y, d)
	}
}

func (c *canvas) vline(x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		var d uint8
		if y > y1 {
			d |= dirUp
		}
		if y < y2 {
			d |= dirDown
		}
		c.line(x, y, d)
	}
}

// elbow connects (x1,y1) to (x2,y2) with a horizontal, a vertical and a
// horizontal run meeting at column mx.
func (c *canvas) elbow(x1, y1, mx, x2, y2 int) {
	c.hline(x1, mx, y1)
	if y1 != y2 {
		c.vline(mx, y1, y2)
	}
	c.hline(mx, x2, y2)
}

// text writes s from (x, y), clipped to maxW cells. It returns the cells
// used.
func (c *canvas) text(x, y int, s string, maxW int, p paint) int {
	used := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if used+rw > maxW {
			break
		}
		c.set(x+used, y, r, p)
		if rw == 2 && c.in(x+used+1, y) {
			*c.at(x+used+1, y) = cell{paint: p, cont: true}
		}
		used += rw
	}
	return used
}

// fill blanks a rectangle so edges underneath do not show through.
func (c *canvas) fill(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, ' ', paintNone)
		}
	}
}

// frame draws a rounded border on the rectangle [x0,x1)×[y0,y1).
func (c *canvas) frame(x0, y0, x1, y1 int, p paint) {
	r, b := x1-1, y1-1
	for x := x0 + 1; x < r; x++ {
		c.set(x, y0, '─', p)
		c.set(x, b, '─', p)
	}
	for y := y0 + 1; y < b; y++ {
		c.set(x0, y, '│', p)
		c.set(r, y, '│', p)
	}
	c.set(x0, y0, '╭', p)
	c.set(r, y0, '╮', p)
	c.set(x0, b, '╰', p)
	c.set(r, b, '╯', p)
}

// render joins rows into a string, styling runs of equal paint.
func (c *canvas) render(styles map[paint]lipgloss.Style) string {
	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		cur := paintNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[cur]; ok {
				sb.WriteString(st.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.at(x, y)
			if cl.cont {
				continue
			}
			if cl.paint != cur {
				flush()
				cur = cl.paint
			}
			switch {
			case cl.r != 0:
				run.WriteRune(cl.r)
			case cl.lines != 0:
				run.WriteRune(lineRunes[cl.lines])
			default:
				run.WriteByte(' ')
			}
		}
		flush()
	}
	return sb.String()
}

// plain renders without styles, for tests and logs.
func (c *canvas) plain() string {
	return c.render(nil)
}
