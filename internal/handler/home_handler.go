package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"voterz/internal/backend"
	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

// HomeHandler serves the organiser's dashboard.
type HomeHandler struct {
	elections *repository.ElectionRepository
	sessions  *session.Store
	render    *Renderer
}

func NewHomeHandler(elections *repository.ElectionRepository, sessions *session.Store, render *Renderer) *HomeHandler {
	return &HomeHandler{
		elections: elections,
		sessions:  sessions,
		render:    render,
	}
}

func (h *HomeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	sess := session.FromContext(r.Context())

	elections, err := h.elections.List(r.Context(), sess)
	if err != nil {
		if backend.IsUnauthorized(err) {
			log.Warn().Err(err).Msg("token rejected, signing out")
			if err := h.sessions.Clear(w, r); err != nil {
				log.Error().Err(err).Msg("failed to clear session")
			}
			alert(h.sessions, w, r, "Please sign in and try again")
			redirect(w, r, "/login")
			return
		}

		log.Error().Err(err).Msg("failed to fetch elections")
		msg := "Failed to fetch elections"
		if errors.Is(err, backend.ErrUnreachable) {
			msg = genericError
		}
		h.render.Render(w, r, http.StatusBadGateway, "dashboard", map[string]any{
			"Nav":        true,
			"Elections":  []entity.Election(nil),
			"LoadFailed": true,
			"Alert":      msg,
		})
		return
	}

	h.render.Render(w, r, http.StatusOK, "dashboard", map[string]any{
		"Nav":        true,
		"Elections":  elections,
		"LoadFailed": false,
	})
}
