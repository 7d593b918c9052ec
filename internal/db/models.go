package db

import (
	"database/sql"
	"fmt"

	"github.com/Konstantin-source/Visionboard/internal/model"
)

// Boards

// GetBoard returns the board, creating it with defaults on first
// access rather than erroring.
func GetBoard(id string) (*model.Board, error) {
	b, err := scanBoard(id)
	if err == sql.ErrNoRows {
		now := model.Now()
		_, err = DB.Exec(
			"INSERT INTO boards (id, name, viewport_x, viewport_y, zoom, created_at, updated_at) VALUES (?, ?, 0, 0, 1, ?, ?)",
			id, id, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert board: %w", err)
		}
		return scanBoard(id)
	}
	if err != nil {
		return nil, fmt.Errorf("query board: %w", err)
	}
	return b, nil
}

func scanBoard(id string) (*model.Board, error) {
	var b model.Board
	err := DB.QueryRow(
		"SELECT id, name, viewport_x, viewport_y, zoom, created_at, updated_at FROM boards WHERE id = ?", id,
	).Scan(&b.ID, &b.Name, &b.Viewport.X, &b.Viewport.Y, &b.Zoom, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func UpdateViewport(id string, vp model.Viewport) error {
	_, err := DB.Exec(
		"UPDATE boards SET viewport_x = ?, viewport_y = ?, zoom = ?, updated_at = ? WHERE id = ?",
		vp.X, vp.Y, vp.Zoom, model.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update viewport: %w", err)
	}
	return nil
}

func UpdateBoardName(id, name string) error {
	_, err := DB.Exec("UPDATE boards SET name = ?, updated_at = ? WHERE id = ?", name, model.Now(), id)
	if err != nil {
		return fmt.Errorf("update board name: %w", err)
	}
	return nil
}

// Items

const itemCols = "id, board_id, type, x, y, width, height, content, style, z_index, created_at, updated_at"

func scanItem(row interface{ Scan(...any) error }) (model.Item, error) {
	var it model.Item
	var style string
	err := row.Scan(&it.ID, &it.BoardID, &it.Type, &it.X, &it.Y, &it.Width, &it.Height,
		&it.Content, &style, &it.ZIndex, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return it, err
	}
	it.Style = model.ParseStyle(style)
	return it, nil
}

func ListItems(boardID string) ([]model.Item, error) {
	rows, err := DB.Query("SELECT "+itemCols+" FROM items WHERE board_id = ? ORDER BY z_index, created_at", boardID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func GetItem(id string) (*model.Item, error) {
	it, err := scanItem(DB.QueryRow("SELECT "+itemCols+" FROM items WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func CreateItem(it model.Item) error {
	_, err := DB.Exec(
		"INSERT INTO items ("+itemCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		it.ID, it.BoardID, it.Type, it.X, it.Y, it.Width, it.Height,
		it.Content, it.Style.Serialize(), it.ZIndex, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// UpdateItem writes the full record. The write is skipped when the
// stored row carries a newer updated_at, so a late-arriving stale write
// (out-of-order fire-and-forget, or one racing a full sync) loses to
// the newer state. Unknown ids are a silent no-op.
func UpdateItem(it model.Item) (bool, error) {
	res, err := DB.Exec(
		"UPDATE items SET type = ?, x = ?, y = ?, width = ?, height = ?, content = ?, style = ?, z_index = ?, updated_at = ? WHERE id = ? AND updated_at <= ?",
		it.Type, it.X, it.Y, it.Width, it.Height, it.Content,
		it.Style.Serialize(), it.ZIndex, it.UpdatedAt, it.ID, it.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func DeleteItem(id string) error {
	if _, err := DB.Exec("DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Todos

const todoCols = "id, board_id, text, completed, priority, created_at, updated_at"

func scanTodo(row interface{ Scan(...any) error }) (model.Todo, error) {
	var td model.Todo
	var completed int
	err := row.Scan(&td.ID, &td.BoardID, &td.Text, &completed, &td.Priority, &td.CreatedAt, &td.UpdatedAt)
	if err != nil {
		return td, err
	}
	td.Completed = completed != 0
	return td, nil
}

func ListTodos(boardID string) ([]model.Todo, error) {
	rows, err := DB.Query("SELECT "+todoCols+" FROM todos WHERE board_id = ? ORDER BY created_at", boardID)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, td)
	}
	return todos, rows.Err()
}

func GetTodo(id string) (*model.Todo, error) {
	td, err := scanTodo(DB.QueryRow("SELECT "+todoCols+" FROM todos WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	return &td, nil
}

func CreateTodo(td model.Todo) error {
	_, err := DB.Exec(
		"INSERT INTO todos ("+todoCols+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		td.ID, td.BoardID, td.Text, boolInt(td.Completed), td.Priority, td.CreatedAt, td.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// UpdateTodo follows the same monotonic updated_at policy as UpdateItem.
func UpdateTodo(td model.Todo) (bool, error) {
	res, err := DB.Exec(
		"UPDATE todos SET text = ?, completed = ?, priority = ?, updated_at = ? WHERE id = ? AND updated_at <= ?",
		td.Text, boolInt(td.Completed), td.Priority, td.UpdatedAt, td.ID, td.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update todo: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func DeleteTodo(id string) error {
	if _, err := DB.Exec("DELETE FROM todos WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// ReplaceBoard is the full-sync write: inside one transaction it
// deletes every item and todo of the board and inserts the supplied
// sets, then stores the viewport. Returns the sync timestamp.
func ReplaceBoard(boardID string, items []model.Item, todos []model.Todo, vp model.Viewport) (int64, error) {
	if _, err := GetBoard(boardID); err != nil {
		return 0, err
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items WHERE board_id = ?", boardID); err != nil {
		return 0, fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM todos WHERE board_id = ?", boardID); err != nil {
		return 0, fmt.Errorf("clear todos: %w", err)
	}

	for _, it := range items {
		_, err := tx.Exec(
			"INSERT INTO items ("+itemCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			it.ID, boardID, it.Type, it.X, it.Y, it.Width, it.Height,
			it.Content, it.Style.Serialize(), it.ZIndex, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	for _, td := range todos {
		_, err := tx.Exec(
			"INSERT INTO todos ("+todoCols+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			td.ID, boardID, td.Text, boolInt(td.Completed), td.Priority, td.CreatedAt, td.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert todo %s: %w", td.ID, err)
		}
	}

	syncedAt := model.Now()
	_, err = tx.Exec(
		"UPDATE boards SET viewport_x = ?, viewport_y = ?, zoom = ?, updated_at = ? WHERE id = ?",
		vp.X, vp.Y, vp.Zoom, syncedAt, boardID,
	)
	if err != nil {
		return 0, fmt.Errorf("update viewport: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return syncedAt, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
