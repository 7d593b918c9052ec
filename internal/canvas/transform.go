// Package canvas implements the board interaction engine: the
// screen/canvas coordinate transform, the bounded pan/zoom viewport,
// the gesture state machine and the item model. It has no DOM
// dependency; the wasm client feeds it normalized input events.
package canvas

import "fmt"

// ScreenToCanvas maps a screen-space point (pixels relative to the
// viewport element's top-left) to canvas space.
func ScreenToCanvas(originX, originY, zoom, sx, sy float64) (float64, float64) {
	return originX + sx/zoom, originY + sy/zoom
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func CanvasToScreen(originX, originY, zoom, cx, cy float64) (float64, float64) {
	return (cx - originX) * zoom, (cy - originY) * zoom
}

// ZoomAnchorOrigin solves for the viewport origin that keeps the canvas
// point under the anchor screen pixel stationary across a zoom change.
func ZoomAnchorOrigin(originX, originY, oldZoom, newZoom, ax, ay float64) (float64, float64) {
	cx := originX + ax/oldZoom
	cy := originY + ay/oldZoom
	return cx - ax/newZoom, cy - ay/newZoom
}

// TransformCSS renders the viewport as a CSS transform. The translate
// applies before the scale, so a canvas point c lands at (c-origin)*zoom.
func TransformCSS(originX, originY, zoom float64) string {
	return fmt.Sprintf("scale(%.4f) translate(%.2fpx, %.2fpx)", zoom, -originX, -originY)
}
