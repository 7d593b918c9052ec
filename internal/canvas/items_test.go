package canvas

import (
	"testing"

	"github.com/Konstantin-source/Visionboard/internal/model"
)

func TestAddTextAssignsTopZIndex(t *testing.T) {
	m := NewModel("default")
	a := m.AddText(10, 10, "first", model.TextStyle{})
	b := m.AddText(20, 20, "second", model.TextStyle{})
	if a.ZIndex != 0 || b.ZIndex != 1 {
		t.Fatalf("zIndexes = %d, %d; want 0, 1", a.ZIndex, b.ZIndex)
	}
	if m.Selected() != b.ID {
		t.Fatal("newly created item should be selected")
	}
}

func TestCreateThenDeleteLeavesListUnchanged(t *testing.T) {
	m := NewModel("default")
	m.AddText(10, 10, "keep", model.TextStyle{})
	before := append([]model.Item(nil), m.Items()...)

	it := m.AddText(50, 50, "ephemeral", model.TextStyle{})
	if !m.Remove(it.ID) {
		t.Fatal("remove failed")
	}

	after := m.Items()
	if len(after) != len(before) {
		t.Fatalf("list length %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Content != before[i].Content {
			t.Fatalf("item %d changed: %+v != %+v", i, after[i], before[i])
		}
	}
}

func TestRemoveClearsSelection(t *testing.T) {
	m := NewModel("default")
	it := m.AddText(10, 10, "x", model.TextStyle{})
	m.Select(it.ID)
	m.Remove(it.ID)
	if m.Selected() != "" {
		t.Fatal("deleting the selected item must clear the selection")
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         float64
		wantW, wantH float64
	}{
		{"within bounds", 300, 200, 300, 200},
		{"exactly max", 400, 400, 400, 400},
		{"wide", 800, 200, 400, 100},
		{"tall", 200, 800, 100, 400},
		{"both oversized square", 1000, 1000, 400, 400},
		{"both oversized landscape", 1600, 800, 400, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := NormalizeSize(tt.w, tt.h, MaxImageDim)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("NormalizeSize(%v, %v) = (%v, %v), want (%v, %v)",
					tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestAddImageNormalizesOnce(t *testing.T) {
	m := NewModel("default")
	it := m.AddImage(0, 0, 800, 200, "data:image/png;base64,")
	if it.Width != 400 || it.Height != 100 {
		t.Fatalf("stored size (%v, %v), want (400, 100)", it.Width, it.Height)
	}
	if it.Style.Image == nil || it.Style.Text != nil {
		t.Fatalf("image item carries wrong style variant: %+v", it.Style)
	}
}

func TestUpdateTextEmptyIsCancel(t *testing.T) {
	m := NewModel("default")
	it := m.AddText(10, 10, "original", model.TextStyle{Bold: true})

	if m.UpdateText(it.ID, "   \n\t ", model.TextStyle{}) {
		t.Fatal("whitespace-only save must be a no-op cancel")
	}
	got, _ := m.Get(it.ID)
	if got.Content != "original" || got.Style.Text == nil || !got.Style.Text.Bold {
		t.Fatalf("cancel mutated the item: %+v", got)
	}

	if !m.UpdateText(it.ID, "updated", model.TextStyle{Italic: true}) {
		t.Fatal("real save failed")
	}
	got, _ = m.Get(it.ID)
	if got.Content != "updated" || !got.Style.Text.Italic {
		t.Fatalf("save did not apply: %+v", got)
	}
}

func TestSetItemsOrdersByZIndex(t *testing.T) {
	m := NewModel("default")
	m.SetItems([]model.Item{
		{ID: "c", ZIndex: 2},
		{ID: "a", ZIndex: 0},
		{ID: "b", ZIndex: 1},
		{ID: "b2", ZIndex: 1}, // ties keep insertion order
	})
	want := []string{"a", "b", "b2", "c"}
	for i, it := range m.Items() {
		if it.ID != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, it.ID, want[i])
		}
	}
}

func TestTodoPartitions(t *testing.T) {
	m := NewModel("default")
	a := m.AddTodo("buy paint", model.PriorityHigh)
	b := m.AddTodo("hang canvas", model.PriorityLow)
	m.AddTodo("dream", model.PriorityMedium)

	if len(m.ActiveTodos()) != 3 || len(m.CompletedTodos()) != 0 {
		t.Fatalf("partitions %d/%d, want 3/0", len(m.ActiveTodos()), len(m.CompletedTodos()))
	}

	m.ToggleTodo(a.ID)
	if len(m.ActiveTodos()) != 2 || len(m.CompletedTodos()) != 1 {
		t.Fatalf("partitions after toggle %d/%d, want 2/1", len(m.ActiveTodos()), len(m.CompletedTodos()))
	}
	if m.CompletedTodos()[0].ID != a.ID {
		t.Fatal("wrong todo completed")
	}

	m.ToggleTodo(a.ID)
	m.RemoveTodo(b.ID)
	if len(m.ActiveTodos()) != 2 || len(m.CompletedTodos()) != 0 {
		t.Fatalf("partitions after untoggle+remove %d/%d, want 2/0", len(m.ActiveTodos()), len(m.CompletedTodos()))
	}
}

func TestAddTodoDefaultsPriority(t *testing.T) {
	m := NewModel("default")
	td := m.AddTodo("task", "urgent")
	if td.Priority != model.PriorityMedium {
		t.Fatalf("invalid priority stored as %q, want medium fallback", td.Priority)
	}
}
