package canvas

import (
	"math"
	"testing"

	"github.com/Konstantin-source/Visionboard/internal/model"
)

func testRouter() (*Router, *Viewport, *Model) {
	vp := NewViewport(800, 600)
	vp.ResetView()
	m := NewModel("default")
	r := NewRouter(vp, m)
	return r, vp, m
}

func placeNote(m *Model, x, y float64) model.Item {
	return m.AddText(x, y, "note", model.TextStyle{})
}

func placeImage(m *Model, x, y, w, h float64) model.Item {
	return m.AddImage(x, y, w, h, "data:image/png;base64,")
}

func TestPanInteraction(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"middle button", Event{Kind: Press, Button: 1, X: 100, Y: 100}},
		{"left with pan modifier", Event{Kind: Press, Button: 0, PanModifier: true, X: 100, Y: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, vp, _ := testRouter()
			done := 0
			r.OnViewportDone = func() { done++ }

			r.Handle(tt.ev)
			if r.State() != Panning {
				t.Fatalf("state = %v, want Panning", r.State())
			}
			x := vp.X
			r.Handle(Event{Kind: Move, X: 60, Y: 100})
			if got := x - vp.X; math.Abs(got-40) > tol {
				t.Fatalf("40px left drag moved origin by %v, want 40", got)
			}
			r.Handle(Event{Kind: Release})
			if r.State() != None {
				t.Fatalf("state after release = %v, want None", r.State())
			}
			if done != 1 {
				t.Fatalf("viewport persist fired %d times, want 1", done)
			}
		})
	}
}

func TestBackgroundClickClearsSelection(t *testing.T) {
	r, _, m := testRouter()
	it := placeNote(m, 2500, 2500)
	m.Select(it.ID)

	r.Handle(Event{Kind: Press, Button: 0, X: 10, Y: 10})
	if m.Selected() != "" {
		t.Fatal("background press should clear selection")
	}
	if r.State() != None {
		t.Fatalf("plain left press started %v", r.State())
	}
}

func TestDragInteraction(t *testing.T) {
	r, vp, m := testRouter()
	it := placeNote(m, 2500, 2500)
	m.ClearSelection()

	sx, sy := vp.CanvasToScreen(2510, 2505) // press 10,5 inside the item
	var doneID string
	r.OnItemDone = func(id string) { doneID = id }

	r.Handle(Event{Kind: Press, Button: 0, Target: TargetItem, ItemID: it.ID, X: sx, Y: sy})
	if r.State() != Dragging {
		t.Fatalf("state = %v, want Dragging", r.State())
	}
	if m.Selected() != it.ID {
		t.Fatal("press on item must select it")
	}

	nx, ny := vp.CanvasToScreen(2610, 2555)
	r.Handle(Event{Kind: Move, X: nx, Y: ny})
	got, _ := m.Get(it.ID)
	if math.Abs(got.X-2600) > tol || math.Abs(got.Y-2550) > tol {
		t.Fatalf("item at (%v, %v), want (2600, 2550)", got.X, got.Y)
	}

	r.Handle(Event{Kind: Release})
	if doneID != it.ID {
		t.Fatalf("item persist fired for %q, want %q", doneID, it.ID)
	}
	if r.State() != None {
		t.Fatalf("state after release = %v", r.State())
	}
}

func TestResizeKeepsAspect(t *testing.T) {
	r, vp, m := testRouter()
	it := placeImage(m, 2500, 2500, 200, 100)

	sx, sy := vp.CanvasToScreen(2700, 2600)
	r.Handle(Event{Kind: Press, Button: 0, Target: TargetHandle, ItemID: it.ID, X: sx, Y: sy})
	if r.State() != Resizing {
		t.Fatalf("state = %v, want Resizing", r.State())
	}

	nx, _ := vp.CanvasToScreen(2800, 2600) // +100 canvas units wide
	r.Handle(Event{Kind: Move, X: nx, Y: sy})
	got, _ := m.Get(it.ID)
	if math.Abs(got.Width-300) > tol || math.Abs(got.Height-150) > tol {
		t.Fatalf("size = (%v, %v), want (300, 150)", got.Width, got.Height)
	}

	// Shrinking far past the minimum clamps.
	nx, _ = vp.CanvasToScreen(2000, 2600)
	r.Handle(Event{Kind: Move, X: nx, Y: sy})
	got, _ = m.Get(it.ID)
	if got.Width != minItemSize {
		t.Fatalf("width = %v, want min %v", got.Width, minItemSize)
	}
	r.Handle(Event{Kind: Release})
}

func TestSecondPressIgnoredWhileActive(t *testing.T) {
	r, _, m := testRouter()
	it := placeNote(m, 2500, 2500)

	r.Handle(Event{Kind: Press, Button: 1, X: 10, Y: 10})
	r.Handle(Event{Kind: Press, Button: 0, Target: TargetItem, ItemID: it.ID, X: 20, Y: 20})
	if r.State() != Panning {
		t.Fatalf("press during pan switched state to %v", r.State())
	}
}

func TestPinchZoom(t *testing.T) {
	r, vp, _ := testRouter()
	changes := 0
	vp.OnChange = func() { changes++ }
	done := 0
	r.OnViewportDone = func() { done++ }

	r.Handle(Event{Kind: TouchStart, Touches: []Point{{300, 300}, {500, 300}}})
	r.Handle(Event{Kind: TouchMove, Touches: []Point{{200, 300}, {600, 300}}})
	if math.Abs(vp.Zoom-2.0) > tol {
		t.Fatalf("doubling finger distance gave zoom %v, want 2", vp.Zoom)
	}
	if changes != 0 {
		t.Fatalf("pinch scheduled %d persists before touch end", changes)
	}
	r.Handle(Event{Kind: TouchEnd, Touches: nil})
	if done != 1 {
		t.Fatalf("pinch end fired persist %d times, want 1", done)
	}
	if vp.OnChange == nil {
		t.Fatal("OnChange not restored after pinch")
	}
}

func TestThirdFingerDuringPinchKeepsOnChange(t *testing.T) {
	r, vp, _ := testRouter()
	changes := 0
	vp.OnChange = func() { changes++ }

	r.Handle(Event{Kind: TouchStart, Touches: []Point{{300, 300}, {500, 300}}})
	// Third finger lands mid-pinch: TouchStart fires again.
	r.Handle(Event{Kind: TouchStart, Touches: []Point{{300, 300}, {500, 300}, {400, 500}}})
	r.Handle(Event{Kind: TouchEnd, Touches: nil})

	if vp.OnChange == nil {
		t.Fatal("OnChange lost after three-finger pinch")
	}
	vp.Pan(10, 0)
	if changes != 1 {
		t.Fatalf("pan after pinch fired OnChange %d times, want 1", changes)
	}
}

func TestSingleTouchPansOffItem(t *testing.T) {
	r, vp, _ := testRouter()
	x := vp.X
	r.Handle(Event{Kind: TouchStart, Target: TargetBackground, Touches: []Point{{100, 100}}})
	if r.State() != Panning {
		t.Fatalf("state = %v, want Panning", r.State())
	}
	r.Handle(Event{Kind: TouchMove, Touches: []Point{{50, 100}}})
	if vp.X == x {
		t.Fatal("touch pan did not move the viewport")
	}
	r.Handle(Event{Kind: TouchEnd, Touches: nil})
	if r.State() != None {
		t.Fatalf("state = %v after touch end", r.State())
	}
}

func TestKeyboardNavComposes(t *testing.T) {
	r, vp, _ := testRouter()

	r.Handle(Event{Kind: KeyDown, Key: "d"})
	r.Handle(Event{Kind: KeyDown, Key: "s"})
	if !r.NavActive() {
		t.Fatal("nav keys held but NavActive is false")
	}

	x, y := vp.X, vp.Y
	if !r.NavTick() {
		t.Fatal("tick with held keys must continue")
	}
	if got := vp.X - x; math.Abs(got-NavSpeed) > tol {
		t.Fatalf("right displacement %v, want %v", got, NavSpeed)
	}
	if got := vp.Y - y; math.Abs(got-NavSpeed) > tol {
		t.Fatalf("down displacement %v, want %v", got, NavSpeed)
	}

	r.Handle(Event{Kind: KeyUp, Key: "d"})
	r.Handle(Event{Kind: KeyUp, Key: "s"})
	done := 0
	r.OnViewportDone = func() { done++ }
	if r.NavTick() {
		t.Fatal("tick with nothing held must terminate")
	}
	if done != 1 {
		t.Fatalf("loop end fired persist %d times, want 1", done)
	}
}

func TestFastModifierSpeed(t *testing.T) {
	r, vp, _ := testRouter()
	r.Handle(Event{Kind: KeyDown, Key: "ArrowRight", FastModifier: true})
	x := vp.X
	r.NavTick()
	if got := vp.X - x; math.Abs(got-NavSpeed*FastFactor) > tol {
		t.Fatalf("fast displacement %v, want %v", got, NavSpeed*FastFactor)
	}
}

func TestStartNavSingleInstance(t *testing.T) {
	r, _, _ := testRouter()
	r.Handle(Event{Kind: KeyDown, Key: "w"})
	if !r.StartNav() {
		t.Fatal("first StartNav must succeed")
	}
	if r.StartNav() {
		t.Fatal("second StartNav while running must be a no-op")
	}
	r.Handle(Event{Kind: KeyUp, Key: "w"})
	r.NavTick() // terminates
	if !r.StartNav() {
		t.Fatal("StartNav after termination must succeed again")
	}
}

func TestJoystickDrivesNav(t *testing.T) {
	r, vp, _ := testRouter()
	r.Handle(Event{Kind: JoystickMove, JoyX: 1, JoyY: 0})
	if !r.NavActive() {
		t.Fatal("off-center joystick must activate nav")
	}
	x := vp.X
	r.NavTick()
	if vp.X <= x {
		t.Fatal("joystick right did not move the viewport right")
	}
	r.Handle(Event{Kind: JoystickMove})
	if r.NavActive() {
		t.Fatal("centered joystick must deactivate nav")
	}
}

func TestEscapeClearsSelection(t *testing.T) {
	r, _, m := testRouter()
	it := placeNote(m, 2500, 2500)
	m.Select(it.ID)
	r.Handle(Event{Kind: KeyDown, Key: "Escape"})
	if m.Selected() != "" {
		t.Fatal("Escape should clear the selection")
	}
}

func TestWheelZoomsAboutCursor(t *testing.T) {
	r, vp, _ := testRouter()
	before, beforeY := vp.ScreenToCanvas(123, 456)
	r.Handle(Event{Kind: Wheel, X: 123, Y: 456, DeltaY: -1})
	if vp.Zoom <= 1 {
		t.Fatalf("wheel up gave zoom %v, want > 1", vp.Zoom)
	}
	after, afterY := vp.ScreenToCanvas(123, 456)
	if math.Abs(before-after) > 1e-6 || math.Abs(beforeY-afterY) > 1e-6 {
		t.Fatalf("cursor anchor drifted from (%v, %v) to (%v, %v)", before, beforeY, after, afterY)
	}
}
