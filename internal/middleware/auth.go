package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"voterz/internal/session"
)

const loginPath = "/login"

// RequireAuth lets the request through only when the session carries a
// token, and hands that session to the handler through the request context.
// Anonymous visitors are sent to the login page.
func RequireAuth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Load(r)
			if !sess.Authenticated() {
				zerolog.Ctx(r.Context()).Info().Str("path", r.URL.Path).Msg("no session, redirecting to login")
				store.Alert(w, r, "Authentication failed. Please login")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// OptionalAuth passes whatever session the visitor has, possibly anonymous.
func OptionalAuth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Load(r)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}
