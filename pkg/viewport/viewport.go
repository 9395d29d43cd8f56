// Package viewport maps between world coordinates produced by layout and
// screen coordinates: screen = world*Scale + Offset.
package viewport

import (
	"github.com/vanderheijden86/mindmap/pkg/layout"
)

// Zoom limits and the step used by ZoomIn and ZoomOut.
const (
	MinScale = 0.1
	MaxScale = 5.0
	ZoomStep = 1.2
)

// Viewport is a pan and zoom transform.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// Centered returns a unit-scale viewport with the world origin in the middle
// of a w×h screen.
func Centered(w, h float64) Viewport {
	return Viewport{OffsetX: w / 2, OffsetY: h / 2, Scale: 1}
}

func (v Viewport) scale() float64 {
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}

// ScreenToWorld converts a screen point to world coordinates.
func (v Viewport) ScreenToWorld(x, y float64) (float64, float64) {
	s := v.scale()
	return (x - v.OffsetX) / s, (y - v.OffsetY) / s
}

// WorldToScreen converts a world point to screen coordinates.
func (v Viewport) WorldToScreen(x, y float64) (float64, float64) {
	s := v.scale()
	return x*s + v.OffsetX, y*s + v.OffsetY
}

// Pan shifts the view by a screen-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

func clampScale(s float64) float64 {
	return min(max(s, MinScale), MaxScale)
}

// ZoomBy multiplies the scale by f, clamped to [MinScale, MaxScale]. The
// offset is left alone, so the zoom pivots on the screen origin.
func (v Viewport) ZoomBy(f float64) Viewport {
	v.Scale = clampScale(v.scale() * f)
	return v
}

// ZoomAt zooms by f keeping the world point under screen (sx, sy) fixed.
func (v Viewport) ZoomAt(f, sx, sy float64) Viewport {
	wx, wy := v.ScreenToWorld(sx, sy)
	v.Scale = clampScale(v.scale() * f)
	v.OffsetX = sx - wx*v.Scale
	v.OffsetY = sy - wy*v.Scale
	return v
}

// ZoomIn zooms in by one step.
func (v Viewport) ZoomIn() Viewport { return v.ZoomBy(ZoomStep) }

// ZoomOut zooms out by one step.
func (v Viewport) ZoomOut() Viewport { return v.ZoomBy(1 / ZoomStep) }

// FitLimits bound the scale chosen by Fit.
type FitLimits struct {
	Padding   float64 // screen margin on every side
	MinExtent float64 // bounds smaller than this are treated as this size
	MinScale  float64
	MaxScale  float64
}

// DefaultFitLimits suit a pixel canvas.
func DefaultFitLimits() FitLimits {
	return FitLimits{Padding: 80, MinExtent: 100, MinScale: 0.2, MaxScale: 1.2}
}

// Fit centres bounds on a w×h screen at the largest scale within lim that
// shows all of it.
func Fit(bounds layout.Rect, w, h float64, lim FitLimits) Viewport {
	bw := max(bounds.Width(), lim.MinExtent)
	bh := max(bounds.Height(), lim.MinExtent)
	availW := max(w-2*lim.Padding, 1)
	availH := max(h-2*lim.Padding, 1)

	s := min(availW/bw, availH/bh)
	if lim.MaxScale > 0 {
		s = min(s, lim.MaxScale)
	}
	s = max(s, lim.MinScale)
	if s <= 0 {
		s = 1
	}

	cx := bounds.MinX + bw/2
	cy := bounds.MinY + bh/2
	return Viewport{OffsetX: w/2 - cx*s, OffsetY: h/2 - cy*s, Scale: s}
}

// FitResult fits the visible part of a layout, or centres the origin when
// nothing is visible.
func FitResult(r layout.Result, w, h float64, lim FitLimits) Viewport {
	b, ok := r.Bounds()
	if !ok {
		return Centered(w, h)
	}
	return Fit(b, w, h, lim)
}
