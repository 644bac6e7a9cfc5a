package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"voterz/internal/session"
)

// LogoutHandler forgets the bearer token and returns to the login page.
func LogoutHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Clear(w, r); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to clear session")
		}
		redirect(w, r, "/login")
	}
}
