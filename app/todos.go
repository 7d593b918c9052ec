package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/Konstantin-source/Visionboard/internal/model"
)

func (b *boardView) renderTodoPanel() app.UI {
	active := b.board.ActiveTodos()
	completed := b.board.CompletedTodos()

	return app.Div().
		Class("todo-panel").
		OnMouseDown(func(ctx app.Context, e app.Event) { e.Call("stopPropagation") }).
		Body(
			app.Div().Class("todo-header").Body(
				app.H3().Text("Todos"),
				app.Button().Class("todo-add").Text("+").OnClick(func(ctx app.Context, e app.Event) {
					b.showTodoModal = true
					b.todoText = ""
					b.todoPriority = model.PriorityMedium
				}),
			),
			app.Range(active).Slice(func(i int) app.UI {
				return b.renderTodo(active[i])
			}),
			app.If(len(completed) > 0, func() app.UI {
				return app.Div().Class("todo-done-header").Text("Done")
			}),
			app.Range(completed).Slice(func(i int) app.UI {
				return b.renderTodo(completed[i])
			}),
		)
}

func (b *boardView) renderTodo(td model.Todo) app.UI {
	classes := "todo priority-" + td.Priority
	checkbox := "todo-checkbox"
	if td.Completed {
		classes += " completed"
		checkbox += " checked"
	}

	return app.Div().Class(classes).Body(
		app.Div().
			Class(checkbox).
			OnClick(func(ctx app.Context, e app.Event) {
				b.toggleTodo(ctx, td.ID)
			}),
		app.Span().Class("todo-text").Text(td.Text),
		app.Button().
			Class("todo-delete").
			Text("×").
			OnClick(func(ctx app.Context, e app.Event) {
				b.deleteTodo(ctx, td.ID)
			}),
	)
}

func (b *boardView) renderTodoModal() app.UI {
	priorityBtn := func(p string) app.UI {
		cls := "priority-btn priority-" + p
		if b.todoPriority == p {
			cls += " active"
		}
		return app.Button().Class(cls).Text(p).OnClick(func(ctx app.Context, e app.Event) {
			b.todoPriority = p
		})
	}

	return app.Div().Class("modal-overlay").Body(
		app.Div().
			Class("modal").
			OnMouseDown(func(ctx app.Context, e app.Event) { e.Call("stopPropagation") }).
			Body(
				app.H2().Text("New todo"),
				app.Input().
					Class("modal-text").
					AutoFocus(true).
					Value(b.todoText).
					OnInput(func(ctx app.Context, e app.Event) {
						b.todoText = e.Get("target").Get("value").String()
					}).
					OnKeyDown(func(ctx app.Context, e app.Event) {
						if e.Get("key").String() == "Enter" {
							b.saveTodo(ctx)
						}
					}),
				app.Div().Class("modal-row").Body(
					priorityBtn(model.PriorityLow),
					priorityBtn(model.PriorityMedium),
					priorityBtn(model.PriorityHigh),
				),
				app.Div().Class("modal-actions").Body(
					app.Button().Text("Cancel").OnClick(func(ctx app.Context, e app.Event) {
						b.showTodoModal = false
					}),
					app.Button().Class("primary").Text("Add").OnClick(func(ctx app.Context, e app.Event) {
						b.saveTodo(ctx)
					}),
				),
			),
	)
}
