package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/Konstantin-source/Visionboard/internal/model"
)

const tokenKey = "visionboard.token"

// snapshot is the local-storage fallback copy of a board, kept fresh on
// every mutation so a dead server never loses the session's work.
type snapshot struct {
	Board model.Board  `json:"board"`
	Items []model.Item `json:"items"`
	Todos []model.Todo `json:"todos"`
}

// syncClient pushes local mutations to the store. Per-entity writes are
// fire-and-forget; the viewport write is debounced; the unload-time
// full sync replaces the whole board.
type syncClient struct {
	boardID string
	token   string

	// onUnauthorized runs on any 401, on the UI goroutine.
	onUnauthorized func()
}

func newSyncClient(boardID string) *syncClient {
	return &syncClient{boardID: boardID}
}

func (s *syncClient) loadToken(ctx app.Context) {
	ctx.LocalStorage().Get(tokenKey, &s.token)
}

func (s *syncClient) setToken(ctx app.Context, token string) {
	s.token = token
	ctx.LocalStorage().Set(tokenKey, token)
}

func (s *syncClient) clearToken(ctx app.Context) {
	s.token = ""
	ctx.LocalStorage().Del(tokenKey)
}

func (s *syncClient) do(method, url string, body any) (*http.Response, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return http.DefaultClient.Do(req)
}

// checkUnauthorized handles a 401 and reports whether it was one.
func (s *syncClient) checkUnauthorized(ctx app.Context, resp *http.Response) bool {
	if resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	ctx.Dispatch(func(app.Context) {
		if s.onUnauthorized != nil {
			s.onUnauthorized()
		}
	})
	return true
}

func (s *syncClient) login(password string) (string, error) {
	resp, err := s.do("POST", "/auth/login", map[string]string{"password": password})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login rejected")
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (s *syncClient) logout(ctx app.Context) {
	token := s.token
	s.clearToken(ctx)
	ctx.Async(func() {
		resp, err := s.do("POST", "/auth/logout?token="+token, nil)
		if err != nil {
			app.Log("logout:", err)
			return
		}
		resp.Body.Close()
	})
}

// load fetches the full board snapshot. When the remote is unreachable
// it falls back to the local cache and reports degraded=true.
func (s *syncClient) load(ctx app.Context, done func(snap snapshot, degraded bool, err error)) {
	ctx.Async(func() {
		resp, err := s.do("GET", "/board/"+s.boardID, nil)
		if err != nil {
			app.Log("board load failed, using local cache:", err)
			snap, ok := s.readCache(ctx)
			ctx.Dispatch(func(app.Context) {
				if ok {
					done(snap, true, nil)
				} else {
					done(snapshot{}, true, err)
				}
			})
			return
		}
		defer resp.Body.Close()
		if s.checkUnauthorized(ctx, resp) {
			return
		}

		var snap snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			app.Log("decode board:", err)
			ctx.Dispatch(func(app.Context) { done(snapshot{}, true, err) })
			return
		}
		ctx.Dispatch(func(app.Context) { done(snap, false, nil) })
	})
}

func (s *syncClient) cacheKey() string {
	return "visionboard.cache." + s.boardID
}

func (s *syncClient) writeCache(ctx app.Context, snap snapshot) {
	if err := ctx.LocalStorage().Set(s.cacheKey(), snap); err != nil {
		app.Log("write local cache:", err)
	}
}

func (s *syncClient) readCache(ctx app.Context) (snapshot, bool) {
	var snap snapshot
	if err := ctx.LocalStorage().Get(s.cacheKey(), &snap); err != nil || snap.Board.ID == "" {
		return snapshot{}, false
	}
	return snap, true
}

// fireAndForget runs a remote write off the UI goroutine. Failures are
// logged and swallowed; local state stays authoritative and the next
// full sync reconciles.
func (s *syncClient) fireAndForget(ctx app.Context, method, url string, body any) {
	ctx.Async(func() {
		resp, err := s.do(method, url, body)
		if err != nil {
			app.Log(method, url, "failed:", err)
			return
		}
		defer resp.Body.Close()
		s.checkUnauthorized(ctx, resp)
	})
}

func (s *syncClient) createItem(ctx app.Context, it model.Item) {
	s.fireAndForget(ctx, "POST", "/items", it)
}

func (s *syncClient) updateItem(ctx app.Context, it model.Item) {
	s.fireAndForget(ctx, "PUT", "/items/"+it.ID, it)
}

func (s *syncClient) deleteItem(ctx app.Context, id string) {
	s.fireAndForget(ctx, "DELETE", "/items/"+id, nil)
}

func (s *syncClient) createTodo(ctx app.Context, td model.Todo) {
	s.fireAndForget(ctx, "POST", "/todos", td)
}

func (s *syncClient) updateTodo(ctx app.Context, td model.Todo) {
	s.fireAndForget(ctx, "PUT", "/todos/"+td.ID, td)
}

func (s *syncClient) deleteTodo(ctx app.Context, id string) {
	s.fireAndForget(ctx, "DELETE", "/todos/"+id, nil)
}

func (s *syncClient) putViewport(ctx app.Context, vp model.Viewport) {
	s.fireAndForget(ctx, "PUT", "/board/"+s.boardID+"/viewport", vp)
}

// fullSync sends the whole board through navigator.sendBeacon, the only
// delivery that survives page unload. The token rides as a query
// parameter because beacons cannot set headers.
func (s *syncClient) fullSync(items []model.Item, todos []model.Todo, vp model.Viewport) {
	if items == nil {
		items = []model.Item{}
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	body, err := json.Marshal(map[string]any{
		"boardId":  s.boardID,
		"items":    items,
		"todos":    todos,
		"viewport": vp,
	})
	if err != nil {
		app.Log("marshal full sync:", err)
		return
	}
	app.Window().Get("navigator").Call("sendBeacon", "/sync?token="+s.token, string(body))
}
