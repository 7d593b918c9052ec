package canvas

const (
	// Extent is the side length of the canvas in logical units.
	Extent = 5000.0

	MinZoom = 0.25
	MaxZoom = 2.0

	// ZoomStep is the factor applied by the zoom buttons.
	ZoomStep = 1.2
)

// Viewport is the rectangular window into canvas space: an origin in
// canvas units plus a zoom factor. Every mutator clamps to the canvas
// bounds and fires OnChange, which the client binds to the debounced
// persistence write.
type Viewport struct {
	X, Y float64
	Zoom float64

	// Screen size of the viewport element, in pixels.
	Width, Height float64

	// OnChange runs after every successful mutation. Optional.
	OnChange func()
}

func NewViewport(width, height float64) *Viewport {
	v := &Viewport{Zoom: 1, Width: width, Height: height}
	v.Clamp()
	return v
}

func (v *Viewport) changed() {
	if v.OnChange != nil {
		v.OnChange()
	}
}

// SetSize records the viewport element's pixel size and re-clamps,
// since the visible extent depends on it.
func (v *Viewport) SetSize(width, height float64) {
	v.Width, v.Height = width, height
	v.Clamp()
}

// Pan shifts the origin by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.X -= dx / v.Zoom
	v.Y -= dy / v.Zoom
	v.Clamp()
	v.changed()
}

// ZoomBy scales zoom by factor, keeping the canvas point under the
// anchor screen pixel stationary. A factor that clamps to the current
// zoom is a no-op.
func (v *Viewport) ZoomBy(factor, ax, ay float64) {
	nz := clampf(v.Zoom*factor, MinZoom, MaxZoom)
	if nz == v.Zoom {
		return
	}
	v.X, v.Y = ZoomAnchorOrigin(v.X, v.Y, v.Zoom, nz, ax, ay)
	v.Zoom = nz
	v.Clamp()
	v.changed()
}

// ZoomIn and ZoomOut anchor at the viewport center.
func (v *Viewport) ZoomIn()  { v.ZoomBy(ZoomStep, v.Width/2, v.Height/2) }
func (v *Viewport) ZoomOut() { v.ZoomBy(1/ZoomStep, v.Width/2, v.Height/2) }

// Clamp bounds the origin so the visible rectangle stays inside the
// canvas. When the viewport is larger than the canvas at the current
// zoom, the origin pins to 0. Idempotent.
func (v *Viewport) Clamp() {
	v.X = clampOrigin(v.X, v.Width/v.Zoom)
	v.Y = clampOrigin(v.Y, v.Height/v.Zoom)
}

func clampOrigin(o, visible float64) float64 {
	max := Extent - visible
	if max < 0 {
		return 0
	}
	return clampf(o, 0, max)
}

// ResetView centers the viewport on the canvas midpoint at zoom 1.
func (v *Viewport) ResetView() {
	v.Zoom = 1
	v.X = Extent/2 - v.Width/2
	v.Y = Extent/2 - v.Height/2
	v.Clamp()
	v.changed()
}

// CenterOn recenters the visible rectangle on a canvas point, keeping
// the current zoom. Used by minimap clicks.
func (v *Viewport) CenterOn(cx, cy float64) {
	v.X = cx - v.Width/v.Zoom/2
	v.Y = cy - v.Height/v.Zoom/2
	v.Clamp()
	v.changed()
}

// ScreenToCanvas maps a point relative to the viewport element.
func (v *Viewport) ScreenToCanvas(sx, sy float64) (float64, float64) {
	return ScreenToCanvas(v.X, v.Y, v.Zoom, sx, sy)
}

func (v *Viewport) CanvasToScreen(cx, cy float64) (float64, float64) {
	return CanvasToScreen(v.X, v.Y, v.Zoom, cx, cy)
}

// CSS returns the transform string for the canvas layer.
func (v *Viewport) CSS() string {
	return TransformCSS(v.X, v.Y, v.Zoom)
}

// MinimapRect scales the visible rectangle down to a minimap of the
// given pixel size. Returns x, y, w, h in minimap pixels.
func (v *Viewport) MinimapRect(size float64) (x, y, w, h float64) {
	f := size / Extent
	w = minf(v.Width/v.Zoom, Extent) * f
	h = minf(v.Height/v.Zoom, Extent) * f
	return v.X * f, v.Y * f, w, h
}

// MinimapToCanvas maps a click inside the minimap back to canvas space.
func MinimapToCanvas(size, mx, my float64) (float64, float64) {
	f := Extent / size
	return mx * f, my * f
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
