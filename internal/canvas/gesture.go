package canvas

import "math"

// Interaction is the single active pointer interaction. Exactly one is
// active at a time; two-finger pinch is tracked separately.
type Interaction int

const (
	None Interaction = iota
	Panning
	Dragging
	Resizing
)

type EventKind int

const (
	Press EventKind = iota
	Move
	Release
	Wheel
	KeyDown
	KeyUp
	TouchStart
	TouchMove
	TouchEnd
	JoystickMove
)

// Target says what a press landed on. Presses on an item suppress the
// viewport-level handling for that event: the item owns it.
type Target int

const (
	TargetBackground Target = iota
	TargetItem
	TargetHandle
	TargetDelete
)

type Point struct {
	X, Y float64
}

// Event is the normalized input variant consumed by the Router. The
// client translates DOM events into these, so gesture logic stays
// independent of any UI toolkit.
type Event struct {
	Kind   EventKind
	X, Y   float64 // screen coords relative to the viewport element
	Button int     // 0 left, 1 middle, 2 right
	DeltaY float64 // wheel

	Key          string
	PanModifier  bool // hold-to-pan modifier for left-button presses
	FastModifier bool // accelerated keyboard navigation

	Target Target
	ItemID string

	// Joystick vector, each axis in [-1, 1]. (0,0) is centered.
	JoyX, JoyY float64

	Touches []Point
}

const (
	// WheelZoomStep is the per-notch wheel zoom factor.
	WheelZoomStep = 1.1

	// NavSpeed is the per-frame keyboard/joystick displacement in
	// screen pixels; FastFactor applies while the fast modifier is held.
	NavSpeed   = 12.0
	FastFactor = 3.0

	minItemSize = 40.0
)

// Router dispatches input events to pan, zoom, drag and resize
// operations, keeping at most one interaction active.
type Router struct {
	VP    *Viewport
	Model *Model

	// OnViewportDone fires when a viewport gesture ends (pan release,
	// pinch end, navigation stop). The client schedules the debounced
	// viewport write from it.
	OnViewportDone func()
	// OnItemDone fires with the item id when a drag or resize ends.
	OnItemDone func(id string)

	state Interaction

	lastX, lastY float64

	dragID         string
	dragDX, dragDY float64 // canvas-space offset from pointer to item origin

	resizeID      string
	resizeStartW  float64
	resizeStartH  float64
	resizeAnchorX float64 // canvas x of the press

	pinchActive bool
	pinchDist   float64
	savedChange func()

	held       map[string]bool
	fast       bool
	joyX, joyY float64
	navRunning bool
}

func NewRouter(vp *Viewport, m *Model) *Router {
	return &Router{VP: vp, Model: m, held: map[string]bool{}}
}

func (r *Router) State() Interaction { return r.state }

func (r *Router) Handle(ev Event) {
	switch ev.Kind {
	case Wheel:
		factor := WheelZoomStep
		if ev.DeltaY > 0 {
			factor = 1 / WheelZoomStep
		}
		r.VP.ZoomBy(factor, ev.X, ev.Y)
	case Press:
		r.press(ev)
	case Move:
		r.move(ev.X, ev.Y)
	case Release:
		r.release()
	case TouchStart:
		r.touchStart(ev)
	case TouchMove:
		r.touchMove(ev)
	case TouchEnd:
		r.touchEnd(ev)
	case KeyDown:
		r.keyDown(ev)
	case KeyUp:
		r.keyUp(ev)
	case JoystickMove:
		r.joyX, r.joyY = ev.JoyX, ev.JoyY
	}
}

func (r *Router) press(ev Event) {
	if r.state != None {
		return
	}
	switch ev.Target {
	case TargetDelete:
		// The delete control owns its own click handling.
	case TargetHandle:
		it, ok := r.Model.Get(ev.ItemID)
		if !ok {
			return
		}
		r.state = Resizing
		r.resizeID = ev.ItemID
		r.resizeStartW = it.Width
		r.resizeStartH = it.Height
		cx, _ := r.VP.ScreenToCanvas(ev.X, ev.Y)
		r.resizeAnchorX = cx
		r.Model.Select(ev.ItemID)
	case TargetItem:
		it, ok := r.Model.Get(ev.ItemID)
		if !ok {
			return
		}
		cx, cy := r.VP.ScreenToCanvas(ev.X, ev.Y)
		r.state = Dragging
		r.dragID = ev.ItemID
		r.dragDX = cx - it.X
		r.dragDY = cy - it.Y
		r.Model.Select(ev.ItemID)
	default:
		if ev.Button == 1 || (ev.Button == 0 && ev.PanModifier) {
			r.state = Panning
			r.lastX, r.lastY = ev.X, ev.Y
			return
		}
		if ev.Button == 0 {
			r.Model.ClearSelection()
		}
	}
}

func (r *Router) move(x, y float64) {
	switch r.state {
	case Panning:
		r.VP.Pan(x-r.lastX, y-r.lastY)
		r.lastX, r.lastY = x, y
	case Dragging:
		cx, cy := r.VP.ScreenToCanvas(x, y)
		r.Model.SetPosition(r.dragID, cx-r.dragDX, cy-r.dragDY)
	case Resizing:
		cx, _ := r.VP.ScreenToCanvas(x, y)
		w := r.resizeStartW + (cx - r.resizeAnchorX)
		if w < minItemSize {
			w = minItemSize
		}
		// Resize handles exist on images only; keep their aspect.
		h := w
		if r.resizeStartW > 0 {
			h = w * r.resizeStartH / r.resizeStartW
		}
		r.Model.SetSize(r.resizeID, w, h)
	}
}

func (r *Router) release() {
	switch r.state {
	case Panning:
		if r.OnViewportDone != nil {
			r.OnViewportDone()
		}
	case Dragging:
		if r.OnItemDone != nil {
			r.OnItemDone(r.dragID)
		}
		r.dragID = ""
	case Resizing:
		if r.OnItemDone != nil {
			r.OnItemDone(r.resizeID)
		}
		r.resizeID = ""
	}
	r.state = None
}

func (r *Router) touchStart(ev Event) {
	if len(ev.Touches) >= 2 {
		// Pinch runs beside the interaction state, and holds back the
		// viewport persistence until the fingers lift. Extra fingers
		// landing mid-pinch must not re-save the already-nil callback.
		if !r.pinchActive {
			r.pinchActive = true
			r.savedChange = r.VP.OnChange
			r.VP.OnChange = nil
		}
		r.pinchDist = dist(ev.Touches[0], ev.Touches[1])
		return
	}
	if len(ev.Touches) != 1 {
		return
	}
	t := ev.Touches[0]
	if ev.Target == TargetItem || ev.Target == TargetHandle {
		r.press(Event{Kind: Press, X: t.X, Y: t.Y, Button: 0, Target: ev.Target, ItemID: ev.ItemID})
		return
	}
	// Single finger off-item pans.
	r.state = Panning
	r.lastX, r.lastY = t.X, t.Y
}

func (r *Router) touchMove(ev Event) {
	if r.pinchActive && len(ev.Touches) >= 2 {
		d := dist(ev.Touches[0], ev.Touches[1])
		if r.pinchDist > 0 && d > 0 {
			mx := (ev.Touches[0].X + ev.Touches[1].X) / 2
			my := (ev.Touches[0].Y + ev.Touches[1].Y) / 2
			r.VP.ZoomBy(d/r.pinchDist, mx, my)
			r.pinchDist = d
		}
		return
	}
	if len(ev.Touches) == 1 {
		r.move(ev.Touches[0].X, ev.Touches[0].Y)
	}
}

func (r *Router) touchEnd(ev Event) {
	if r.pinchActive && len(ev.Touches) < 2 {
		r.pinchActive = false
		r.VP.OnChange = r.savedChange
		r.savedChange = nil
		if r.OnViewportDone != nil {
			r.OnViewportDone()
		}
	}
	if len(ev.Touches) == 0 {
		r.release()
	}
}

var navKeys = map[string][2]float64{
	"w": {0, -1}, "ArrowUp": {0, -1},
	"s": {0, 1}, "ArrowDown": {0, 1},
	"a": {-1, 0}, "ArrowLeft": {-1, 0},
	"d": {1, 0}, "ArrowRight": {1, 0},
}

func (r *Router) keyDown(ev Event) {
	if ev.Key == "Escape" {
		r.Model.ClearSelection()
		return
	}
	if _, ok := navKeys[ev.Key]; !ok {
		return
	}
	r.held[ev.Key] = true
	r.fast = ev.FastModifier
}

func (r *Router) keyUp(ev Event) {
	delete(r.held, ev.Key)
	r.fast = ev.FastModifier
}

// NavActive reports whether the navigation loop has work: any held nav
// key, or a joystick off center.
func (r *Router) NavActive() bool {
	return len(r.held) > 0 || r.joyX != 0 || r.joyY != 0
}

// StartNav marks the navigation loop running. Returns false when a loop
// is already active, so the host never schedules two.
func (r *Router) StartNav() bool {
	if r.navRunning {
		return false
	}
	r.navRunning = true
	return true
}

// NavTick applies one frame of keyboard/joystick displacement. The host
// calls it from its frame scheduler; a false return means the loop has
// self-terminated and the viewport write was handed off.
func (r *Router) NavTick() bool {
	if !r.NavActive() {
		r.navRunning = false
		if r.OnViewportDone != nil {
			r.OnViewportDone()
		}
		return false
	}
	var dx, dy float64
	for k := range r.held {
		d := navKeys[k]
		dx += d[0]
		dy += d[1]
	}
	dx += r.joyX
	dy += r.joyY
	speed := NavSpeed
	if r.fast {
		speed *= FastFactor
	}
	// Moving the view right means the origin grows, hence the sign flip.
	r.VP.Pan(-dx*speed, -dy*speed)
	return true
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
