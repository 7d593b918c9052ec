package main

import (
	"fmt"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"github.com/yuin/goldmark"

	"github.com/Konstantin-source/Visionboard/internal/canvas"
	"github.com/Konstantin-source/Visionboard/internal/model"
)

const defaultFontSize = 16.0

type boardView struct {
	app.Compo

	boardID string
	loaded  bool
	authed  bool

	password string
	loginErr string

	vp     *canvas.Viewport
	board  *canvas.Model
	router *canvas.Router
	sync   *syncClient

	vpDebounce *canvas.Debouncer

	// Text-edit modal. editingID == "new" means the note does not exist
	// yet and will be created at (editX, editY) on save.
	editingID string
	editText  string
	editStyle model.TextStyle
	editX     float64
	editY     float64

	showTodoModal bool
	todoText      string
	todoPriority  string

	degraded bool
}

func (b *boardView) OnInit() {
	b.boardID = model.DefaultBoardID
	b.todoPriority = model.PriorityMedium
}

func (b *boardView) OnMount(ctx app.Context) {
	path := ctx.Page().URL().Path
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "b" {
		b.boardID = parts[1]
	}

	w, h := app.Window().Size()
	b.vp = canvas.NewViewport(float64(w), float64(h))
	b.board = canvas.NewModel(b.boardID)
	b.router = canvas.NewRouter(b.vp, b.board)
	b.sync = newSyncClient(b.boardID)
	b.sync.loadToken(ctx)
	b.sync.onUnauthorized = func() {
		b.sync.clearToken(ctx)
		b.authed = false
	}

	// Rapid pans and zooms collapse into one write of the final state.
	b.vpDebounce = canvas.NewDebouncer(viewportQuiet, func() {
		ctx.Dispatch(func(ctx app.Context) {
			b.sync.putViewport(ctx, b.viewport())
			b.cache(ctx)
		})
	})
	b.vp.OnChange = func() { b.vpDebounce.Schedule() }
	b.router.OnViewportDone = func() { b.vpDebounce.Schedule() }
	b.router.OnItemDone = func(id string) {
		if it, ok := b.board.Get(id); ok {
			b.sync.updateItem(ctx, it)
			b.cache(ctx)
		}
	}

	b.attachWindowListeners(ctx)

	if b.sync.token == "" {
		b.authed = false
		return
	}
	b.authed = true
	b.loadBoard(ctx)
}

func (b *boardView) loadBoard(ctx app.Context) {
	b.sync.load(ctx, func(snap snapshot, degraded bool, err error) {
		if err != nil && snap.Board.ID == "" {
			// Nothing remote and nothing cached: start empty, degraded.
			b.loaded = true
			b.degraded = true
			return
		}
		b.board.SetItems(snap.Items)
		b.board.SetTodos(snap.Todos)
		cam := snap.Board.Camera()
		b.vp.X = cam.X
		b.vp.Y = cam.Y
		if cam.Zoom > 0 {
			b.vp.Zoom = cam.Zoom
		}
		b.vp.Clamp()
		b.loaded = true
		b.degraded = degraded
		if !degraded {
			b.sync.writeCache(ctx, snap)
		}
	})
}

func (b *boardView) viewport() model.Viewport {
	return model.Viewport{X: b.vp.X, Y: b.vp.Y, Zoom: b.vp.Zoom}
}

// cache refreshes the local fallback copy after any mutation.
func (b *boardView) cache(ctx app.Context) {
	board := model.Board{ID: b.boardID, Name: b.boardID}
	board.SetCamera(b.viewport())
	b.sync.writeCache(ctx, snapshot{
		Board: board,
		Items: b.board.Items(),
		Todos: b.board.Todos(),
	})
}

// Item actions

func (b *boardView) openNewNote(cx, cy float64) {
	b.editingID = "new"
	b.editText = ""
	b.editStyle = model.TextStyle{FontSize: defaultFontSize, Color: "#e2e8f0"}
	b.editX = cx
	b.editY = cy
}

func (b *boardView) openEditNote(it model.Item) {
	b.editingID = it.ID
	b.editText = it.Content
	if it.Style.Text != nil {
		b.editStyle = *it.Style.Text
	} else {
		b.editStyle = model.TextStyle{FontSize: defaultFontSize}
	}
}

func (b *boardView) saveNote(ctx app.Context) {
	id := b.editingID
	b.editingID = ""
	if strings.TrimSpace(b.editText) == "" {
		// Empty text is a cancel, not a delete.
		return
	}
	if id == "new" {
		it := b.board.AddText(b.editX, b.editY, b.editText, b.editStyle)
		b.sync.createItem(ctx, it)
	} else {
		if !b.board.UpdateText(id, b.editText, b.editStyle) {
			return
		}
		it, _ := b.board.Get(id)
		b.sync.updateItem(ctx, it)
	}
	b.cache(ctx)
}

func (b *boardView) deleteItem(ctx app.Context, id string) {
	if b.board.Remove(id) {
		b.sync.deleteItem(ctx, id)
		b.cache(ctx)
	}
}

func (b *boardView) deleteSelected(ctx app.Context) {
	if id := b.board.Selected(); id != "" {
		b.deleteItem(ctx, id)
	}
}

func (b *boardView) addImage(ctx app.Context, naturalW, naturalH float64, dataURI string) {
	cx, cy := b.vp.ScreenToCanvas(b.vp.Width/2, b.vp.Height/2)
	it := b.board.AddImage(cx-naturalW/2, cy-naturalH/2, naturalW, naturalH, dataURI)
	b.sync.createItem(ctx, it)
	b.cache(ctx)
}

// Todo actions

func (b *boardView) saveTodo(ctx app.Context) {
	text := strings.TrimSpace(b.todoText)
	b.showTodoModal = false
	b.todoText = ""
	if text == "" {
		return
	}
	td := b.board.AddTodo(text, b.todoPriority)
	b.sync.createTodo(ctx, td)
	b.cache(ctx)
}

func (b *boardView) toggleTodo(ctx app.Context, id string) {
	if td, ok := b.board.ToggleTodo(id); ok {
		b.sync.updateTodo(ctx, td)
		b.cache(ctx)
	}
}

func (b *boardView) deleteTodo(ctx app.Context, id string) {
	if b.board.RemoveTodo(id) {
		b.sync.deleteTodo(ctx, id)
		b.cache(ctx)
	}
}

// Login

func (b *boardView) submitLogin(ctx app.Context) {
	password := b.password
	b.password = ""
	ctx.Async(func() {
		token, err := b.sync.login(password)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				b.loginErr = "Wrong password"
				return
			}
			b.loginErr = ""
			b.sync.setToken(ctx, token)
			b.authed = true
			b.loadBoard(ctx)
		})
	})
}

// Render

func (b *boardView) Render() app.UI {
	if b.vp == nil {
		return app.Div().Class("loading-overlay").Body(
			app.Div().Class("loading-spinner"),
		)
	}
	if !b.authed {
		return b.renderLogin()
	}
	if !b.loaded {
		return app.Div().Class("loading-overlay").Body(
			app.Div().Class("loading-spinner"),
		)
	}

	containerClass := "board-container"
	if b.router.State() == canvas.Panning {
		containerClass += " panning"
	}

	return app.Div().
		Class(containerClass).
		TabIndex(-1).
		OnWheel(b.onWheel).
		OnMouseDown(b.onCanvasMouseDown).
		OnMouseMove(b.onCanvasMouseMove).
		OnMouseUp(b.onCanvasMouseUp).
		OnDblClick(b.onCanvasDblClick).
		OnTouchStart(b.onTouchStart).
		OnTouchMove(b.onTouchMove).
		OnTouchEnd(b.onTouchEnd).
		Body(
			app.Div().
				Class("board-transform").
				Style("transform", b.vp.CSS()).
				Body(
					app.Range(b.board.Items()).Slice(func(i int) app.UI {
						return b.renderItem(b.board.Items()[i])
					}),
				),

			b.renderToolbar(),
			b.renderMinimap(),
			b.renderTodoPanel(),
			b.renderJoystick(),

			app.Div().
				Class("zoom-indicator").
				Text(fmt.Sprintf("%.0f%%", b.vp.Zoom*100)),

			app.If(b.degraded, func() app.UI {
				return app.Div().Class("sync-status degraded").Text("offline — changes kept locally")
			}),

			app.If(b.editingID != "", func() app.UI {
				return b.renderNoteModal()
			}),
			app.If(b.showTodoModal, func() app.UI {
				return b.renderTodoModal()
			}),
		)
}

func (b *boardView) renderItem(it model.Item) app.UI {
	switch it.Type {
	case model.ItemImage:
		return b.renderImage(it)
	default:
		return b.renderNote(it)
	}
}

func (b *boardView) itemClasses(base string, it model.Item) string {
	if b.board.Selected() == it.ID {
		base += " selected"
	}
	return base
}

func (b *boardView) renderNote(it model.Item) app.UI {
	classes := b.itemClasses("item item-note", it)
	st := it.Style.Text
	if st == nil {
		st = &model.TextStyle{FontSize: defaultFontSize}
	}
	if st.Bold {
		classes += " bold"
	}
	if st.Italic {
		classes += " italic"
	}
	if st.Glow {
		classes += " glow"
	}
	fontSize := st.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}

	el := app.Div().
		Class(classes).
		Style("left", fmt.Sprintf("%.1fpx", it.X)).
		Style("top", fmt.Sprintf("%.1fpx", it.Y)).
		Style("z-index", fmt.Sprintf("%d", it.ZIndex)).
		Style("font-size", fmt.Sprintf("%.0fpx", fontSize)).
		OnMouseDown(b.itemMouseDown(it.ID, canvas.TargetItem)).
		OnTouchStart(b.itemTouchStart(it.ID, canvas.TargetItem)).
		OnDblClick(func(ctx app.Context, e app.Event) {
			e.Call("stopPropagation")
			e.PreventDefault()
			if cur, ok := b.board.Get(it.ID); ok {
				b.openEditNote(cur)
			}
		})
	if st.Color != "" {
		el = el.Style("color", st.Color)
	}

	return el.Body(
		app.Raw("<div class=\"note-content\">"+renderMarkdown(it.Content)+"</div>"),
		app.If(b.board.Selected() == it.ID, func() app.UI {
			return b.renderDeleteControl(it.ID)
		}),
	)
}

func (b *boardView) renderImage(it model.Item) app.UI {
	classes := b.itemClasses("item item-image", it)
	selected := b.board.Selected() == it.ID

	return app.Div().
		Class(classes).
		Style("left", fmt.Sprintf("%.1fpx", it.X)).
		Style("top", fmt.Sprintf("%.1fpx", it.Y)).
		Style("width", fmt.Sprintf("%.1fpx", it.Width)).
		Style("height", fmt.Sprintf("%.1fpx", it.Height)).
		Style("z-index", fmt.Sprintf("%d", it.ZIndex)).
		OnMouseDown(b.itemMouseDown(it.ID, canvas.TargetItem)).
		OnTouchStart(b.itemTouchStart(it.ID, canvas.TargetItem)).
		Body(
			app.Img().Src(it.Content).Draggable(false),
			app.If(selected, func() app.UI {
				return b.renderDeleteControl(it.ID)
			}),
			app.If(selected, func() app.UI {
				return app.Div().
					Class("resize-handle").
					OnMouseDown(b.itemMouseDown(it.ID, canvas.TargetHandle)).
					OnTouchStart(b.itemTouchStart(it.ID, canvas.TargetHandle))
			}),
		)
}

func (b *boardView) renderDeleteControl(id string) app.UI {
	return app.Button().
		Class("delete-control").
		Text("×").
		OnMouseDown(func(ctx app.Context, e app.Event) {
			e.Call("stopPropagation")
			e.PreventDefault()
			b.deleteItem(ctx, id)
		})
}

func (b *boardView) renderToolbar() app.UI {
	btn := func(icon, title string, h app.EventHandler) app.UI {
		return app.Button().
			Class("toolbar-btn").
			Title(title).
			Text(icon).
			OnMouseDown(func(ctx app.Context, e app.Event) {
				e.Call("stopPropagation")
				e.PreventDefault()
				h(ctx, e)
			})
	}

	return app.Div().Class("toolbar").Body(
		btn("□", "Add note", func(ctx app.Context, e app.Event) {
			cx, cy := b.vp.ScreenToCanvas(b.vp.Width/2, b.vp.Height/2)
			b.openNewNote(cx, cy)
		}),
		btn("⌘", "Add image", func(ctx app.Context, e app.Event) {
			if input := app.Window().GetElementByID("image-input"); input.Truthy() {
				input.Call("click")
			}
		}),
		app.Input().
			ID("image-input").
			Type("file").
			Accept("image/*").
			Style("display", "none").
			OnChange(b.onImagePicked),
		app.Div().Class("toolbar-divider"),
		btn("+", "Zoom in", func(ctx app.Context, e app.Event) { b.vp.ZoomIn() }),
		btn("−", "Zoom out", func(ctx app.Context, e app.Event) { b.vp.ZoomOut() }),
		btn("⌂", "Reset view", func(ctx app.Context, e app.Event) { b.vp.ResetView() }),
		app.Div().Class("toolbar-divider"),
		btn("⏻", "Log out", func(ctx app.Context, e app.Event) {
			b.sync.logout(ctx)
			b.authed = false
		}),
	)
}

func (b *boardView) renderNoteModal() app.UI {
	return app.Div().Class("modal-overlay").Body(
		app.Div().
			Class("modal").
			OnMouseDown(func(ctx app.Context, e app.Event) { e.Call("stopPropagation") }).
			Body(
				app.H2().Text("Note"),
				app.Textarea().
					Class("modal-text").
					AutoFocus(true).
					Text(b.editText).
					OnInput(func(ctx app.Context, e app.Event) {
						b.editText = e.Get("target").Get("value").String()
					}),
				app.Div().Class("modal-row").Body(
					app.Label().Text("Size"),
					app.Input().Type("number").Value(fmt.Sprintf("%.0f", b.editStyle.FontSize)).
						OnInput(func(ctx app.Context, e app.Event) {
							b.editStyle.FontSize = e.Get("target").Get("value").Float()
						}),
					app.Label().Text("Color"),
					app.Input().Type("color").Value(b.editStyle.Color).
						OnInput(func(ctx app.Context, e app.Event) {
							b.editStyle.Color = e.Get("target").Get("value").String()
						}),
				),
				app.Div().Class("modal-row").Body(
					b.styleToggle("B", "bold", b.editStyle.Bold, func() { b.editStyle.Bold = !b.editStyle.Bold }),
					b.styleToggle("I", "italic", b.editStyle.Italic, func() { b.editStyle.Italic = !b.editStyle.Italic }),
					b.styleToggle("✨", "glow", b.editStyle.Glow, func() { b.editStyle.Glow = !b.editStyle.Glow }),
				),
				app.Div().Class("modal-actions").Body(
					app.Button().Text("Cancel").OnClick(func(ctx app.Context, e app.Event) {
						b.editingID = ""
					}),
					app.Button().Class("primary").Text("Save").OnClick(func(ctx app.Context, e app.Event) {
						b.saveNote(ctx)
					}),
				),
			),
	)
}

func (b *boardView) styleToggle(label, class string, active bool, flip func()) app.UI {
	cls := "style-toggle " + class
	if active {
		cls += " active"
	}
	return app.Button().Class(cls).Text(label).OnClick(func(ctx app.Context, e app.Event) {
		flip()
	})
}

func (b *boardView) renderLogin() app.UI {
	return app.Div().Class("login-overlay").Body(
		app.Div().Class("login-card").Body(
			app.H1().Text("Visionboard"),
			app.If(b.loginErr != "", func() app.UI {
				return app.P().Class("login-error").Text(b.loginErr)
			}),
			app.Input().
				Type("password").
				Placeholder("Password").
				AutoFocus(true).
				Value(b.password).
				OnInput(func(ctx app.Context, e app.Event) {
					b.password = e.Get("target").Get("value").String()
				}).
				OnKeyDown(func(ctx app.Context, e app.Event) {
					if e.Get("key").String() == "Enter" {
						b.submitLogin(ctx)
					}
				}),
			app.Button().Class("primary").Text("Enter").OnClick(func(ctx app.Context, e app.Event) {
				b.submitLogin(ctx)
			}),
		),
	)
}

func renderMarkdown(content string) string {
	if strings.TrimSpace(content) == "" {
		return "<p class=\"placeholder\">Double-click to edit…</p>"
	}
	var buf strings.Builder
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		app.Log("markdown:", err)
		return "<p>" + content + "</p>"
	}
	return buf.String()
}
