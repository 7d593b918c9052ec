// Package model holds the board/item/todo types shared by the store,
// the REST layer and the wasm client, so all three agree field-for-field.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ItemText  = "text"
	ItemImage = "image"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultBoardID is the board opened when no explicit id is in the URL.
const DefaultBoardID = "default"

// Viewport is the camera payload of viewport writes and full syncs.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Offset is the viewport origin as it lives on a board: on the wire a
// board carries `viewport: {x, y}` with `zoom` as a sibling field.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Board struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Viewport  Offset  `json:"viewport"`
	Zoom      float64 `json:"zoom"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// Camera bundles the board's origin and zoom into one Viewport value.
func (b Board) Camera() Viewport {
	return Viewport{X: b.Viewport.X, Y: b.Viewport.Y, Zoom: b.Zoom}
}

func (b *Board) SetCamera(vp Viewport) {
	b.Viewport = Offset{X: vp.X, Y: vp.Y}
	b.Zoom = vp.Zoom
}

// TextStyle is the style variant carried by text items.
type TextStyle struct {
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
	Glow     bool    `json:"glow,omitempty"`
}

// ImageStyle is intentionally empty; images carry no style attributes.
type ImageStyle struct{}

// Style is a tagged variant: exactly one branch is set, matching the
// item type. Stored as a single serialized text column either way.
type Style struct {
	Text  *TextStyle  `json:"text,omitempty"`
	Image *ImageStyle `json:"image,omitempty"`
}

// ParseStyle decodes the stored style column. Unknown or empty input
// yields a zero Style rather than an error; the column is display-only.
func ParseStyle(s string) Style {
	var st Style
	if s == "" || s == "{}" {
		return st
	}
	json.Unmarshal([]byte(s), &st)
	return st
}

func (s Style) Serialize() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type Item struct {
	ID        string  `json:"id"`
	BoardID   string  `json:"boardId"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Content   string  `json:"content"`
	Style     Style   `json:"style"`
	ZIndex    int     `json:"zIndex"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

type Todo struct {
	ID        string `json:"id"`
	BoardID   string `json:"boardId"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func ValidItemType(t string) bool {
	return t == ItemText || t == ItemImage
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// NewID returns a globally unique, client-generatable id: the creation
// time in unix milliseconds plus a random suffix. Never reused.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%x-%s", time.Now().UnixMilli(), suffix)
}

func Now() int64 {
	return time.Now().UnixMilli()
}
