package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

type LoginHandler struct {
	userRepo *repository.UserRepository
	sessions *session.Store
	render   *Renderer
}

func NewLoginHandler(userRepo *repository.UserRepository, sessions *session.Store, render *Renderer) *LoginHandler {
	return &LoginHandler{
		userRepo: userRepo,
		sessions: sessions,
		render:   render,
	}
}

func (h *LoginHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.Load(r).Authenticated() {
		redirect(w, r, "/dashboard")
		return
	}
	h.render.Render(w, r, http.StatusOK, "login", map[string]any{
		"Form": entity.Credentials{},
	})
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	creds := entity.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	data := map[string]any{"Form": entity.Credentials{Email: creds.Email}}

	if creds.Email == "" || creds.Password == "" {
		data["Error"] = "Email and password are required"
		h.render.Render(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}

	sess, err := h.userRepo.Login(r.Context(), creds)
	if err != nil {
		log.Error().Err(err).Str("email", creds.Email).Msg("login failed")
		data["Alert"] = alertFor(err)
		h.render.Render(w, r, failureStatus(err), "login", data)
		return
	}

	if err := h.sessions.Save(w, r, sess); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		data["Alert"] = genericError
		h.render.Render(w, r, http.StatusInternalServerError, "login", data)
		return
	}

	log.Info().Str("email", creds.Email).Msg("organiser logged in")
	redirect(w, r, "/dashboard")
}
