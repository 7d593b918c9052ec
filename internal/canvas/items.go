package canvas

import (
	"sort"
	"strings"

	"github.com/Konstantin-source/Visionboard/internal/model"
)

// MaxImageDim is the largest dimension an image item may have after
// creation-time normalization, in canvas units.
const MaxImageDim = 400.0

// Model is the authoritative working copy of a board during an editing
// session: its placed items, its todos and the selection. The store
// holds the last-synced copy.
type Model struct {
	BoardID string

	items    []model.Item
	todos    []model.Todo
	selected string
}

func NewModel(boardID string) *Model {
	return &Model{BoardID: boardID}
}

// SetItems replaces the working set, ordering by z-index with insertion
// order as tie-break.
func (m *Model) SetItems(items []model.Item) {
	m.items = append([]model.Item(nil), items...)
	sort.SliceStable(m.items, func(i, j int) bool {
		return m.items[i].ZIndex < m.items[j].ZIndex
	})
}

func (m *Model) Items() []model.Item { return m.items }

func (m *Model) Get(id string) (model.Item, bool) {
	for _, it := range m.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

func (m *Model) index(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddText places a text note at a canvas point. New items paint on top:
// zIndex is the current item count.
func (m *Model) AddText(x, y float64, content string, style model.TextStyle) model.Item {
	now := model.Now()
	it := model.Item{
		ID:        model.NewID(),
		BoardID:   m.BoardID,
		Type:      model.ItemText,
		X:         x,
		Y:         y,
		Content:   content,
		Style:     model.Style{Text: &style},
		ZIndex:    len(m.items),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.items = append(m.items, it)
	m.selected = it.ID
	return it
}

// AddImage places an image item, normalizing oversized dimensions once
// at creation. The payload is a data URI.
func (m *Model) AddImage(x, y, width, height float64, dataURI string) model.Item {
	width, height = NormalizeSize(width, height, MaxImageDim)
	now := model.Now()
	it := model.Item{
		ID:        model.NewID(),
		BoardID:   m.BoardID,
		Type:      model.ItemImage,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		Content:   dataURI,
		Style:     model.Style{Image: &model.ImageStyle{}},
		ZIndex:    len(m.items),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.items = append(m.items, it)
	m.selected = it.ID
	return it
}

// NormalizeSize scales both dimensions down, preserving aspect ratio,
// so neither exceeds max. Dimensions already within bounds pass through.
func NormalizeSize(w, h, max float64) (float64, float64) {
	if w <= max && h <= max {
		return w, h
	}
	scale := max / w
	if h > w {
		scale = max / h
	}
	return w * scale, h * scale
}

func (m *Model) SetPosition(id string, x, y float64) {
	if i := m.index(id); i >= 0 {
		m.items[i].X = x
		m.items[i].Y = y
		m.items[i].UpdatedAt = model.Now()
	}
}

func (m *Model) SetSize(id string, w, h float64) {
	if i := m.index(id); i >= 0 {
		m.items[i].Width = w
		m.items[i].Height = h
		m.items[i].UpdatedAt = model.Now()
	}
}

// UpdateText saves an edited note. Empty trimmed text is a no-op
// cancel, never a deletion.
func (m *Model) UpdateText(id, content string, style model.TextStyle) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.items[i].Content = content
	m.items[i].Style = model.Style{Text: &style}
	m.items[i].UpdatedAt = model.Now()
	return true
}

// Remove deletes an item, clearing the selection when it pointed at it.
func (m *Model) Remove(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	if m.selected == id {
		m.selected = ""
	}
	return true
}

func (m *Model) Select(id string) {
	if m.index(id) >= 0 {
		m.selected = id
	}
}

func (m *Model) ClearSelection() { m.selected = "" }

func (m *Model) Selected() string { return m.selected }

// Todos

func (m *Model) SetTodos(todos []model.Todo) {
	m.todos = append([]model.Todo(nil), todos...)
}

func (m *Model) Todos() []model.Todo { return m.todos }

func (m *Model) AddTodo(text, priority string) model.Todo {
	if !model.ValidPriority(priority) {
		priority = model.PriorityMedium
	}
	now := model.Now()
	td := model.Todo{
		ID:        model.NewID(),
		BoardID:   m.BoardID,
		Text:      text,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.todos = append(m.todos, td)
	return td
}

func (m *Model) ToggleTodo(id string) (model.Todo, bool) {
	for i := range m.todos {
		if m.todos[i].ID == id {
			m.todos[i].Completed = !m.todos[i].Completed
			m.todos[i].UpdatedAt = model.Now()
			return m.todos[i], true
		}
	}
	return model.Todo{}, false
}

func (m *Model) RemoveTodo(id string) bool {
	for i := range m.todos {
		if m.todos[i].ID == id {
			m.todos = append(m.todos[:i], m.todos[i+1:]...)
			return true
		}
	}
	return false
}

// ActiveTodos and CompletedTodos are re-derived on every call; there
// are no counters to keep in sync.
func (m *Model) ActiveTodos() []model.Todo { return m.filterTodos(false) }

func (m *Model) CompletedTodos() []model.Todo { return m.filterTodos(true) }

func (m *Model) filterTodos(completed bool) []model.Todo {
	var out []model.Todo
	for _, td := range m.todos {
		if td.Completed == completed {
			out = append(out, td)
		}
	}
	return out
}
