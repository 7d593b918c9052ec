// Package api is the JSON REST surface the sync client talks to.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Konstantin-source/Visionboard/internal/canvas"
	"github.com/Konstantin-source/Visionboard/internal/db"
	"github.com/Konstantin-source/Visionboard/internal/imaging"
	"github.com/Konstantin-source/Visionboard/internal/model"
)

func RegisterRoutes(mux *http.ServeMux) {
	// Boards
	mux.HandleFunc("GET /board/{id}", handleGetBoard)
	mux.HandleFunc("PUT /board/{id}", handleUpdateBoard)
	mux.HandleFunc("PUT /board/{id}/viewport", handleUpdateViewport)

	// Items
	mux.HandleFunc("POST /items", handleCreateItem)
	mux.HandleFunc("PUT /items/{id}", handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", handleDeleteItem)

	// Todos
	mux.HandleFunc("POST /todos", handleCreateTodo)
	mux.HandleFunc("PUT /todos/{id}", handleUpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", handleDeleteTodo)

	// Full sync
	mux.HandleFunc("POST /sync", handleSync)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Boards

func handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	board, err := db.GetBoard(id)
	if err != nil {
		log.Printf("error getting board %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	items, err := db.ListItems(id)
	if err != nil {
		log.Printf("error listing items for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	todos, err := db.ListTodos(id)
	if err != nil {
		log.Printf("error listing todos for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	if todos == nil {
		todos = []model.Todo{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"board": board,
		"items": items,
		"todos": todos,
	})
}

func handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == nil {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if _, err := db.GetBoard(id); err != nil {
		log.Printf("error getting board %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := db.UpdateBoardName(id, *req.Name); err != nil {
		log.Printf("error renaming board %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validViewport(vp model.Viewport) bool {
	return vp.Zoom >= canvas.MinZoom && vp.Zoom <= canvas.MaxZoom
}

func handleUpdateViewport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var vp model.Viewport
	if err := json.NewDecoder(r.Body).Decode(&vp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !validViewport(vp) {
		writeError(w, http.StatusBadRequest, "zoom out of range")
		return
	}
	if _, err := db.GetBoard(id); err != nil {
		log.Printf("error getting board %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := db.UpdateViewport(id, vp); err != nil {
		log.Printf("error updating viewport for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Items

func handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var it model.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if it.BoardID == "" {
		writeError(w, http.StatusBadRequest, "boardId required")
		return
	}
	if !model.ValidItemType(it.Type) {
		writeError(w, http.StatusBadRequest, "type must be text or image")
		return
	}
	if it.ID == "" {
		it.ID = model.NewID()
	}
	now := model.Now()
	if it.CreatedAt == 0 {
		it.CreatedAt = now
	}
	if it.UpdatedAt == 0 {
		it.UpdatedAt = now
	}

	if it.Type == model.ItemImage && it.Content != "" {
		normalized, err := imaging.Normalize(it.Content, imaging.MaxPixelDim)
		if err != nil {
			// Undecodable payloads are stored as-is; the browser may
			// still know the format.
			log.Printf("image normalize for item %s: %v", it.ID, err)
		} else {
			it.Content = normalized
		}
	}

	if _, err := db.GetBoard(it.BoardID); err != nil {
		log.Printf("error getting board %s: %v", it.BoardID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := db.CreateItem(it); err != nil {
		log.Printf("error creating item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Type      *string      `json:"type"`
		X         *float64     `json:"x"`
		Y         *float64     `json:"y"`
		Width     *float64     `json:"width"`
		Height    *float64     `json:"height"`
		Content   *string      `json:"content"`
		Style     *model.Style `json:"style"`
		ZIndex    *int         `json:"zIndex"`
		UpdatedAt *int64       `json:"updatedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Type != nil && !model.ValidItemType(*req.Type) {
		writeError(w, http.StatusBadRequest, "type must be text or image")
		return
	}

	existing, err := db.GetItem(id)
	if err != nil {
		// Unknown ids are a silent no-op at the store layer.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	it := *existing
	if req.Type != nil {
		it.Type = *req.Type
	}
	if req.X != nil {
		it.X = *req.X
	}
	if req.Y != nil {
		it.Y = *req.Y
	}
	if req.Width != nil {
		it.Width = *req.Width
	}
	if req.Height != nil {
		it.Height = *req.Height
	}
	if req.Content != nil {
		it.Content = *req.Content
	}
	if req.Style != nil {
		it.Style = *req.Style
	}
	if req.ZIndex != nil {
		it.ZIndex = *req.ZIndex
	}
	if req.UpdatedAt != nil {
		it.UpdatedAt = *req.UpdatedAt
	} else {
		it.UpdatedAt = model.Now()
	}

	applied, err := db.UpdateItem(it)
	if err != nil {
		log.Printf("error updating item %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !applied {
		// A newer write already landed; return the stored state.
		if cur, err := db.GetItem(id); err == nil {
			writeJSON(w, http.StatusOK, cur)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := db.DeleteItem(r.PathValue("id")); err != nil {
		log.Printf("error deleting item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Todos

func handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var td model.Todo
	if err := json.NewDecoder(r.Body).Decode(&td); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if td.BoardID == "" {
		writeError(w, http.StatusBadRequest, "boardId required")
		return
	}
	if td.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}
	if td.Priority == "" {
		td.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(td.Priority) {
		writeError(w, http.StatusBadRequest, "priority must be low, medium or high")
		return
	}
	if td.ID == "" {
		td.ID = model.NewID()
	}
	now := model.Now()
	if td.CreatedAt == 0 {
		td.CreatedAt = now
	}
	if td.UpdatedAt == 0 {
		td.UpdatedAt = now
	}

	if _, err := db.GetBoard(td.BoardID); err != nil {
		log.Printf("error getting board %s: %v", td.BoardID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := db.CreateTodo(td); err != nil {
		log.Printf("error creating todo: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, td)
}

func handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Text      *string `json:"text"`
		Completed *bool   `json:"completed"`
		Priority  *string `json:"priority"`
		UpdatedAt *int64  `json:"updatedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Priority != nil && !model.ValidPriority(*req.Priority) {
		writeError(w, http.StatusBadRequest, "priority must be low, medium or high")
		return
	}

	existing, err := db.GetTodo(id)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	td := *existing
	if req.Text != nil {
		td.Text = *req.Text
	}
	if req.Completed != nil {
		td.Completed = *req.Completed
	}
	if req.Priority != nil {
		td.Priority = *req.Priority
	}
	if req.UpdatedAt != nil {
		td.UpdatedAt = *req.UpdatedAt
	} else {
		td.UpdatedAt = model.Now()
	}

	applied, err := db.UpdateTodo(td)
	if err != nil {
		log.Printf("error updating todo %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !applied {
		if cur, err := db.GetTodo(id); err == nil {
			writeJSON(w, http.StatusOK, cur)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, td)
}

func handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := db.DeleteTodo(r.PathValue("id")); err != nil {
		log.Printf("error deleting todo: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Full sync

func handleSync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BoardID  string         `json:"boardId"`
		Items    []model.Item   `json:"items"`
		Todos    []model.Todo   `json:"todos"`
		Viewport model.Viewport `json:"viewport"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.BoardID == "" {
		writeError(w, http.StatusBadRequest, "boardId required")
		return
	}
	if !validViewport(req.Viewport) {
		writeError(w, http.StatusBadRequest, "zoom out of range")
		return
	}
	for _, it := range req.Items {
		if it.ID == "" || !model.ValidItemType(it.Type) {
			writeError(w, http.StatusBadRequest, "items need an id and a valid type")
			return
		}
	}
	for _, td := range req.Todos {
		if td.ID == "" || !model.ValidPriority(td.Priority) {
			writeError(w, http.StatusBadRequest, "todos need an id and a valid priority")
			return
		}
	}

	syncedAt, err := db.ReplaceBoard(req.BoardID, req.Items, req.Todos, req.Viewport)
	if err != nil {
		log.Printf("error syncing board %s: %v", req.BoardID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"syncedAt": syncedAt})
}
