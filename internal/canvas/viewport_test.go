package canvas

import (
	"math"
	"testing"
)

func testViewport() *Viewport {
	return NewViewport(800, 600)
}

func checkBounds(t *testing.T, v *Viewport) {
	t.Helper()
	maxX := Extent - v.Width/v.Zoom
	maxY := Extent - v.Height/v.Zoom
	if v.X < 0 || v.X > maxX+tol {
		t.Fatalf("origin X %v out of [0, %v] at zoom %v", v.X, maxX, v.Zoom)
	}
	if v.Y < 0 || v.Y > maxY+tol {
		t.Fatalf("origin Y %v out of [0, %v] at zoom %v", v.Y, maxY, v.Zoom)
	}
}

func TestClampIdempotent(t *testing.T) {
	tests := []struct {
		name         string
		x, y, zoom   float64
	}{
		{"inside", 100, 100, 1},
		{"negative origin", -500, -500, 1},
		{"past far edge", 9999, 9999, 1},
		{"min zoom", 3000, 3000, MinZoom},
		{"max zoom", 4999, 4999, MaxZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testViewport()
			v.X, v.Y, v.Zoom = tt.x, tt.y, tt.zoom
			v.Clamp()
			x1, y1 := v.X, v.Y
			v.Clamp()
			if v.X != x1 || v.Y != y1 {
				t.Fatalf("second clamp moved origin: (%v,%v) -> (%v,%v)", x1, y1, v.X, v.Y)
			}
			checkBounds(t, v)
		})
	}
}

func TestClampPinsWhenViewportLargerThanCanvas(t *testing.T) {
	v := NewViewport(3000, 3000)
	v.Zoom = MinZoom // visible extent 12000 > 5000
	v.X, v.Y = 400, 400
	v.Clamp()
	if v.X != 0 || v.Y != 0 {
		t.Fatalf("origin should pin to 0, got (%v, %v)", v.X, v.Y)
	}
}

func TestPanZoomSequenceStaysBounded(t *testing.T) {
	v := testViewport()
	v.ResetView()
	steps := []func(){
		func() { v.Pan(-3000, 0) },
		func() { v.ZoomBy(0.5, 100, 100) },
		func() { v.Pan(0, 99999) },
		func() { v.ZoomBy(4, 400, 300) },
		func() { v.Pan(12345, -12345) },
		func() { v.ZoomBy(0.1, 0, 0) },
		func() { v.ResetView() },
		func() { v.Pan(-1, -1) },
	}
	for i, step := range steps {
		step()
		checkBounds(t, v)
		if v.Zoom < MinZoom || v.Zoom > MaxZoom {
			t.Fatalf("step %d: zoom %v out of range", i, v.Zoom)
		}
	}
}

func TestPanDividesByZoom(t *testing.T) {
	v := testViewport()
	v.ResetView()
	v.Zoom = 2
	v.Clamp()
	x := v.X
	v.Pan(-100, 0)
	if got := v.X - x; math.Abs(got-50) > tol {
		t.Fatalf("pan of 100 screen px at zoom 2 moved origin by %v, want 50", got)
	}
}

func TestZoomByNoopAtLimit(t *testing.T) {
	v := testViewport()
	v.ResetView()
	v.Zoom = MaxZoom
	v.Clamp()
	calls := 0
	v.OnChange = func() { calls++ }
	x, y := v.X, v.Y
	v.ZoomBy(1.5, 400, 300)
	if v.Zoom != MaxZoom || v.X != x || v.Y != y {
		t.Fatal("zoom past max must not move the viewport")
	}
	if calls != 0 {
		t.Fatalf("no-op zoom fired OnChange %d times", calls)
	}
}

func TestZoomInTwiceThenReset(t *testing.T) {
	v := testViewport()
	v.ResetView()
	v.ZoomIn()
	v.ZoomIn()
	if v.Zoom == 1 {
		t.Fatal("zoomIn did not change zoom")
	}
	v.ResetView()
	if v.Zoom != 1.0 {
		t.Fatalf("zoom after reset = %v, want exactly 1.0", v.Zoom)
	}
	wantX := Extent/2 - v.Width/2
	wantY := Extent/2 - v.Height/2
	if math.Abs(v.X-wantX) > tol || math.Abs(v.Y-wantY) > tol {
		t.Fatalf("origin after reset = (%v, %v), want (%v, %v)", v.X, v.Y, wantX, wantY)
	}
}

func TestCenterOn(t *testing.T) {
	v := testViewport()
	v.CenterOn(2500, 2500)
	cx, cy := v.ScreenToCanvas(v.Width/2, v.Height/2)
	if math.Abs(cx-2500) > tol || math.Abs(cy-2500) > tol {
		t.Fatalf("center = (%v, %v), want (2500, 2500)", cx, cy)
	}

	// Near the corner the clamp wins over exact centering.
	v.CenterOn(0, 0)
	checkBounds(t, v)
	if v.X != 0 || v.Y != 0 {
		t.Fatalf("centering on the corner should clamp to origin 0, got (%v, %v)", v.X, v.Y)
	}
}

func TestMinimapRoundTrip(t *testing.T) {
	v := testViewport()
	v.CenterOn(1000, 2000)

	x, y, w, h := v.MinimapRect(160)
	if w <= 0 || h <= 0 || x < 0 || y < 0 {
		t.Fatalf("degenerate minimap rect: %v %v %v %v", x, y, w, h)
	}

	// A click at the rect's center maps back to the viewport's center.
	cx, cy := MinimapToCanvas(160, x+w/2, y+h/2)
	wx, wy := v.ScreenToCanvas(v.Width/2, v.Height/2)
	if math.Abs(cx-wx) > 1 || math.Abs(cy-wy) > 1 {
		t.Fatalf("minimap center (%v, %v) != viewport center (%v, %v)", cx, cy, wx, wy)
	}
}
