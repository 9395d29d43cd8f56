package viewport

import (
	"math"
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/layout"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRoundTrip(t *testing.T) {
	v := Viewport{OffsetX: 120, OffsetY: -40, Scale: 1.7}
	wx, wy := v.ScreenToWorld(300, 200)
	sx, sy := v.WorldToScreen(wx, wy)
	if !near(sx, 300) || !near(sy, 200) {
		t.Errorf("round trip = (%v, %v), want (300, 200)", sx, sy)
	}
}

func TestZeroScaleActsAsIdentity(t *testing.T) {
	var v Viewport
	x, y := v.ScreenToWorld(5, 7)
	if x != 5 || y != 7 {
		t.Errorf("zero viewport ScreenToWorld = (%v, %v)", x, y)
	}
}

func TestZoomClamps(t *testing.T) {
	v := Centered(800, 600)
	for i := 0; i < 50; i++ {
		v = v.ZoomIn()
	}
	if v.Scale != MaxScale {
		t.Errorf("scale = %v, want %v", v.Scale, MaxScale)
	}
	for i := 0; i < 100; i++ {
		v = v.ZoomOut()
	}
	if v.Scale != MinScale {
		t.Errorf("scale = %v, want %v", v.Scale, MinScale)
	}
}

func TestZoomAtKeepsPivot(t *testing.T) {
	v := Centered(800, 600)
	wx, wy := v.ScreenToWorld(100, 50)
	v = v.ZoomAt(2, 100, 50)
	sx, sy := v.WorldToScreen(wx, wy)
	if !near(sx, 100) || !near(sy, 50) {
		t.Errorf("pivot moved to (%v, %v)", sx, sy)
	}
	if v.Scale != 2 {
		t.Errorf("scale = %v, want 2", v.Scale)
	}
}

func TestPan(t *testing.T) {
	v := Centered(100, 100).Pan(10, -5)
	if v.OffsetX != 60 || v.OffsetY != 45 {
		t.Errorf("Pan = %+v", v)
	}
}

func TestFitCentersBounds(t *testing.T) {
	b := layout.Rect{MinX: -25, MinY: -200, MaxX: 775, MaxY: 200}
	v := Fit(b, 1000, 800, DefaultFitLimits())

	// available 840x640 over 800x400 gives 1.05.
	if !near(v.Scale, 1.05) {
		t.Fatalf("scale = %v, want 1.05", v.Scale)
	}
	cx, cy := b.Center()
	sx, sy := v.WorldToScreen(cx, cy)
	if !near(sx, 500) || !near(sy, 400) {
		t.Errorf("bounds centre lands at (%v, %v), want (500, 400)", sx, sy)
	}
}

func TestFitRespectsLimits(t *testing.T) {
	lim := DefaultFitLimits()
	tiny := Fit(layout.Rect{MaxX: 10, MaxY: 10}, 1000, 1000, lim)
	if tiny.Scale != lim.MaxScale {
		t.Errorf("tiny bounds scale = %v, want %v", tiny.Scale, lim.MaxScale)
	}
	huge := Fit(layout.Rect{MaxX: 1e6, MaxY: 1e6}, 1000, 1000, lim)
	if huge.Scale != lim.MinScale {
		t.Errorf("huge bounds scale = %v, want %v", huge.Scale, lim.MinScale)
	}
}

func TestFitResultEmpty(t *testing.T) {
	v := FitResult(layout.Result{}, 200, 100, DefaultFitLimits())
	if v != Centered(200, 100) {
		t.Errorf("empty fit = %+v", v)
	}
}
