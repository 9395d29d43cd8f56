package layout

// Box is a laid-out node: centre point, size and tree depth.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  int     `json:"depth"`
}

// Left returns the x of the box's left edge.
func (b Box) Left() float64 { return b.X - b.Width/2 }

// Right returns the x of the box's right edge.
func (b Box) Right() float64 { return b.X + b.Width/2 }

// Top returns the y of the box's top edge.
func (b Box) Top() float64 { return b.Y - b.Height/2 }

// Bottom returns the y of the box's bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height/2 }

// Rect returns the box as an axis-aligned rectangle.
func (b Box) Rect() Rect {
	return Rect{MinX: b.Left(), MinY: b.Top(), MaxX: b.Right(), MaxY: b.Bottom()}
}

// Contains reports whether (px, py) lies inside the box grown by pad on
// every side. Edges count as inside.
func (b Box) Contains(px, py, pad float64) bool {
	return px >= b.Left()-pad && px <= b.Right()+pad &&
		py >= b.Top()-pad && py <= b.Bottom()+pad
}

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal size.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical size.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint.
func (r Rect) Center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Inset returns r grown by d on every side; negative d shrinks it.
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}
