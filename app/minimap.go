package main

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/Konstantin-source/Visionboard/internal/canvas"
)

// minimapSize is the minimap's edge length in pixels.
const minimapSize = 160.0

// renderMinimap draws the scaled-down canvas with the current viewport
// rectangle and a dot per item. Clicking recenters on that point.
func (b *boardView) renderMinimap() app.UI {
	x, y, w, h := b.vp.MinimapRect(minimapSize)
	f := minimapSize / canvas.Extent

	return app.Div().
		Class("minimap").
		Style("width", fmt.Sprintf("%.0fpx", minimapSize)).
		Style("height", fmt.Sprintf("%.0fpx", minimapSize)).
		OnMouseDown(func(ctx app.Context, e app.Event) {
			e.Call("stopPropagation")
			e.PreventDefault()
			rect := e.Get("currentTarget").Call("getBoundingClientRect")
			mx := e.Get("clientX").Float() - rect.Get("left").Float()
			my := e.Get("clientY").Float() - rect.Get("top").Float()
			cx, cy := canvas.MinimapToCanvas(minimapSize, mx, my)
			b.vp.CenterOn(cx, cy)
		}).
		Body(
			app.Range(b.board.Items()).Slice(func(i int) app.UI {
				it := b.board.Items()[i]
				return app.Div().
					Class("minimap-dot").
					Style("left", fmt.Sprintf("%.1fpx", it.X*f)).
					Style("top", fmt.Sprintf("%.1fpx", it.Y*f))
			}),
			app.Div().
				Class("minimap-view").
				Style("left", fmt.Sprintf("%.1fpx", x)).
				Style("top", fmt.Sprintf("%.1fpx", y)).
				Style("width", fmt.Sprintf("%.1fpx", w)).
				Style("height", fmt.Sprintf("%.1fpx", h)),
		)
}
