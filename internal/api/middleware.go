package api

import (
	"net/http"
	"strings"

	"github.com/Konstantin-source/Visionboard/internal/auth"
)

// Token returns the bearer token presented on a request. The query
// parameter form exists for navigator.sendBeacon, which cannot set
// headers on the unload-time sync.
func Token(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if t, ok := strings.CutPrefix(h, "Bearer "); ok {
		return t
	}
	return r.URL.Query().Get("token")
}

// RequireAuth guards the protected surface. Missing, invalid or
// expired tokens get a 401 with a machine-readable login flag.
func RequireAuth(store *auth.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !store.Validate(Token(r)) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":         "unauthorized",
				"loginRequired": true,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
