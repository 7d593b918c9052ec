package api

import (
	"encoding/json"
	"net/http"

	"github.com/Konstantin-source/Visionboard/internal/auth"
	"github.com/Konstantin-source/Visionboard/internal/config"
)

func RegisterAuthRoutes(mux *http.ServeMux, cfg config.Config, store *auth.Store) {
	mux.HandleFunc("POST /auth/login", handleLogin(cfg, store))
	mux.HandleFunc("GET /auth/check", handleCheck(store))
	mux.HandleFunc("POST /auth/logout", handleLogout(store))
}

func handleLogin(cfg config.Config, store *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if !auth.CheckPassword(cfg.Password, req.Password) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":         "invalid password",
				"loginRequired": true,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": store.Issue()})
	}
}

func handleCheck(store *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{
			"authenticated": store.Validate(Token(r)),
		})
	}
}

func handleLogout(store *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Revoke(Token(r))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
