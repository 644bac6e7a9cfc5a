package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

type RegistrationHandler struct {
	userRepo *repository.UserRepository
	sessions *session.Store
	render   *Renderer
}

func NewRegistrationHandler(userRepo *repository.UserRepository, sessions *session.Store, render *Renderer) *RegistrationHandler {
	return &RegistrationHandler{
		userRepo: userRepo,
		sessions: sessions,
		render:   render,
	}
}

func (h *RegistrationHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "signup", map[string]any{
		"Form": entity.User{},
	})
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	user := entity.User{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Type:     r.PostFormValue("type"),
		OrgName:  strings.TrimSpace(r.PostFormValue("orgname")),
	}
	if user.Type != "" && user.Type != entity.OrgTypeSchool && user.Type != entity.OrgTypeOrganisation {
		user.Type = ""
	}

	// Never echo the password back into the form.
	form := user
	form.Password = ""
	data := map[string]any{"Form": form}

	if missing := user.Missing(); len(missing) > 0 {
		data["Error"] = fmt.Sprintf("Please fill in: %s", strings.Join(missing, ", "))
		h.render.Render(w, r, http.StatusUnprocessableEntity, "signup", data)
		return
	}

	if err := h.userRepo.Signup(r.Context(), user); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("signup failed")
		data["Alert"] = alertFor(err)
		h.render.Render(w, r, failureStatus(err), "signup", data)
		return
	}

	log.Info().Str("email", user.Email).Str("type", user.Type).Msg("organiser registered")
	alert(h.sessions, w, r, "Account created, please log in")
	redirect(w, r, "/login")
}
