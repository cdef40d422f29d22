package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/session"
)

// SessionReader is the part of the session store this middleware needs.
type SessionReader interface {
	Get(r *http.Request) (session.Admin, bool)
}

// RequireSession rejects requests without an authenticated admin session and
// sets the admin in context (see AdminFromContext).
func RequireSession(store SessionReader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := store.Get(r)
			if !ok {
				writeErr(w, http.StatusUnauthorized, "sign in with Webex first")
				return
			}
			ctx := WithAdmin(r.Context(), &admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeErr(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
