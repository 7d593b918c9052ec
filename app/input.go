package main

import (
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/Konstantin-source/Visionboard/internal/canvas"
)

// viewportQuiet is the debounce window for viewport persistence.
const viewportQuiet = time.Second

// Pointer events

func (b *boardView) onWheel(ctx app.Context, e app.Event) {
	e.PreventDefault()
	b.router.Handle(canvas.Event{
		Kind:   canvas.Wheel,
		X:      e.Get("clientX").Float(),
		Y:      e.Get("clientY").Float(),
		DeltaY: e.Get("deltaY").Float(),
	})
}

func (b *boardView) onCanvasMouseDown(ctx app.Context, e app.Event) {
	b.router.Handle(canvas.Event{
		Kind:        canvas.Press,
		X:           e.Get("clientX").Float(),
		Y:           e.Get("clientY").Float(),
		Button:      e.Get("button").Int(),
		PanModifier: e.Get("altKey").Bool(),
		Target:      canvas.TargetBackground,
	})
	if b.router.State() == canvas.Panning {
		e.PreventDefault()
	}
}

func (b *boardView) onCanvasMouseMove(ctx app.Context, e app.Event) {
	if b.router.State() != canvas.None {
		e.PreventDefault()
	}
	b.router.Handle(canvas.Event{
		Kind: canvas.Move,
		X:    e.Get("clientX").Float(),
		Y:    e.Get("clientY").Float(),
	})
}

func (b *boardView) onCanvasMouseUp(ctx app.Context, e app.Event) {
	b.router.Handle(canvas.Event{Kind: canvas.Release})
}

func (b *boardView) onCanvasDblClick(ctx app.Context, e app.Event) {
	e.PreventDefault()
	cx, cy := b.vp.ScreenToCanvas(e.Get("clientX").Float(), e.Get("clientY").Float())
	b.openNewNote(cx, cy)
}

// itemMouseDown routes a press that landed on an item (or its resize
// handle); stopping propagation keeps the viewport handler out of it.
func (b *boardView) itemMouseDown(id string, target canvas.Target) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		e.Call("stopPropagation")
		b.router.Handle(canvas.Event{
			Kind:        canvas.Press,
			X:           e.Get("clientX").Float(),
			Y:           e.Get("clientY").Float(),
			Button:      e.Get("button").Int(),
			PanModifier: e.Get("altKey").Bool(),
			Target:      target,
			ItemID:      id,
		})
	}
}

// Touch events

func touchPoints(e app.Event) []canvas.Point {
	touches := e.Get("touches")
	n := touches.Get("length").Int()
	pts := make([]canvas.Point, 0, n)
	for i := 0; i < n; i++ {
		t := touches.Index(i)
		pts = append(pts, canvas.Point{
			X: t.Get("clientX").Float(),
			Y: t.Get("clientY").Float(),
		})
	}
	return pts
}

func (b *boardView) onTouchStart(ctx app.Context, e app.Event) {
	e.PreventDefault()
	b.router.Handle(canvas.Event{
		Kind:    canvas.TouchStart,
		Target:  canvas.TargetBackground,
		Touches: touchPoints(e),
	})
}

func (b *boardView) itemTouchStart(id string, target canvas.Target) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		e.Call("stopPropagation")
		e.PreventDefault()
		b.router.Handle(canvas.Event{
			Kind:    canvas.TouchStart,
			Target:  target,
			ItemID:  id,
			Touches: touchPoints(e),
		})
	}
}

func (b *boardView) onTouchMove(ctx app.Context, e app.Event) {
	e.PreventDefault()
	b.router.Handle(canvas.Event{Kind: canvas.TouchMove, Touches: touchPoints(e)})
}

func (b *boardView) onTouchEnd(ctx app.Context, e app.Event) {
	b.router.Handle(canvas.Event{Kind: canvas.TouchEnd, Touches: touchPoints(e)})
}

// Window-level listeners: keyboard, resize, unload.

func (b *boardView) attachWindowListeners(ctx app.Context) {
	win := app.Window()

	win.AddEventListener("keydown", func(ctx app.Context, e app.Event) {
		if !b.authed || b.editingID != "" || b.showTodoModal {
			return
		}
		key := e.Get("key").String()
		switch key {
		case "Delete", "Backspace":
			b.deleteSelected(ctx)
			return
		}
		b.router.Handle(canvas.Event{
			Kind:         canvas.KeyDown,
			Key:          key,
			FastModifier: e.Get("shiftKey").Bool(),
		})
		if b.router.NavActive() {
			e.PreventDefault()
			b.startNavLoop(ctx)
		}
	})

	win.AddEventListener("keyup", func(ctx app.Context, e app.Event) {
		b.router.Handle(canvas.Event{
			Kind:         canvas.KeyUp,
			Key:          e.Get("key").String(),
			FastModifier: e.Get("shiftKey").Bool(),
		})
	})

	win.AddEventListener("resize", func(ctx app.Context, e app.Event) {
		w, h := app.Window().Size()
		b.vp.SetSize(float64(w), float64(h))
	})

	win.AddEventListener("beforeunload", func(ctx app.Context, e app.Event) {
		if !b.authed || !b.loaded {
			return
		}
		b.sync.fullSync(b.board.Items(), b.board.Todos(), b.viewport())
	})
}

// startNavLoop drives the keyboard/joystick navigation from the
// display's own frame cadence. Starting while a loop runs is a no-op;
// the loop self-terminates once nothing is held.
func (b *boardView) startNavLoop(ctx app.Context) {
	if !b.router.StartNav() {
		return
	}
	var frame func(this app.Value, args []app.Value) any
	frame = func(this app.Value, args []app.Value) any {
		ctx.Dispatch(func(ctx app.Context) {
			if b.router.NavTick() {
				app.Window().Call("requestAnimationFrame", app.FuncOf(frame))
			}
		})
		return nil
	}
	app.Window().Call("requestAnimationFrame", app.FuncOf(frame))
}

// Joystick

func (b *boardView) renderJoystick() app.UI {
	return app.Div().
		Class("joystick").
		OnMouseDown(b.joystickMove).
		OnMouseMove(b.joystickMove).
		OnMouseUp(b.joystickCenter).
		OnMouseLeave(b.joystickCenter).
		OnTouchStart(b.joystickTouch).
		OnTouchMove(b.joystickTouch).
		OnTouchEnd(b.joystickCenter).
		Body(
			app.Div().Class("joystick-knob"),
		)
}

func (b *boardView) joystickVector(ctx app.Context, clientX, clientY float64, buttons bool) {
	if !buttons {
		return
	}
	rect := app.Window().Get("document").Call("querySelector", ".joystick").Call("getBoundingClientRect")
	cx := rect.Get("left").Float() + rect.Get("width").Float()/2
	cy := rect.Get("top").Float() + rect.Get("height").Float()/2
	radius := rect.Get("width").Float() / 2
	jx := clampUnit((clientX - cx) / radius)
	jy := clampUnit((clientY - cy) / radius)
	b.router.Handle(canvas.Event{Kind: canvas.JoystickMove, JoyX: jx, JoyY: jy})
	b.startNavLoop(ctx)
}

func (b *boardView) joystickMove(ctx app.Context, e app.Event) {
	e.Call("stopPropagation")
	b.joystickVector(ctx, e.Get("clientX").Float(), e.Get("clientY").Float(), e.Get("buttons").Int() > 0)
}

func (b *boardView) joystickTouch(ctx app.Context, e app.Event) {
	e.Call("stopPropagation")
	e.PreventDefault()
	pts := touchPoints(e)
	if len(pts) == 0 {
		return
	}
	b.joystickVector(ctx, pts[0].X, pts[0].Y, true)
}

func (b *boardView) joystickCenter(ctx app.Context, e app.Event) {
	e.Call("stopPropagation")
	b.router.Handle(canvas.Event{Kind: canvas.JoystickMove})
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Image picking

func (b *boardView) onImagePicked(ctx app.Context, e app.Event) {
	files := e.Get("target").Get("files")
	if files.Get("length").Int() == 0 {
		return
	}
	file := files.Index(0)

	reader := app.Window().Get("FileReader").New()
	reader.Set("onload", app.FuncOf(func(this app.Value, args []app.Value) any {
		dataURI := reader.Get("result").String()

		// The natural pixel size drives the initial canvas footprint;
		// the item model clamps it to the 400-unit maximum.
		img := app.Window().Get("Image").New()
		img.Set("onload", app.FuncOf(func(this app.Value, args []app.Value) any {
			w := img.Get("naturalWidth").Float()
			h := img.Get("naturalHeight").Float()
			ctx.Dispatch(func(ctx app.Context) {
				b.addImage(ctx, w, h, dataURI)
			})
			return nil
		}))
		img.Set("src", dataURI)
		return nil
	}))
	reader.Call("readAsDataURL", file)
}
