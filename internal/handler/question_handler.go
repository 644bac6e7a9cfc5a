package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"voterz/internal/editor"
	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

// QuestionHandler serves the question editor. The draft lives in the form
// and is rebuilt on every post; nothing reaches the backend until the
// organiser saves.
type QuestionHandler struct {
	elections *repository.ElectionRepository
	questions *repository.QuestionRepository
	sessions  *session.Store
	render    *Renderer
}

func NewQuestionHandler(
	elections *repository.ElectionRepository,
	questions *repository.QuestionRepository,
	sessions *session.Store,
	render *Renderer,
) *QuestionHandler {
	return &QuestionHandler{
		elections: elections,
		questions: questions,
		sessions:  sessions,
		render:    render,
	}
}

func (h *QuestionHandler) EditorPage(w http.ResponseWriter, r *http.Request) {
	election, ok := h.editableElection(w, r)
	if !ok {
		return
	}
	h.renderEditor(w, r, http.StatusOK, election, editor.New(), "")
}

func (h *QuestionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	election, ok := h.editableElection(w, r)
	if !ok {
		return
	}

	draft := editor.ParseForm(r.PostForm)
	// Pressing enter in a field posts no action.
	name := r.PostFormValue("action")
	if name == "" {
		name = string(editor.Submit)
	}
	action, err := editor.ParseAction(name)
	if err != nil {
		log.Warn().Err(err).Msg("bad editor action")
		h.renderEditor(w, r, http.StatusBadRequest, election, draft, genericError)
		return
	}

	if action.Kind != editor.Submit {
		if err := draft.Apply(action); err != nil {
			log.Debug().Err(err).Str("action", action.String()).Msg("editor action refused")
			h.renderEditor(w, r, http.StatusUnprocessableEntity, election, draft, draftMessage(err))
			return
		}
		h.renderEditor(w, r, http.StatusOK, election, draft, "")
		return
	}

	if err := draft.Validate(); err != nil {
		h.renderEditor(w, r, http.StatusUnprocessableEntity, election, draft, draftMessage(err))
		return
	}

	sess := session.FromContext(r.Context())
	if err := h.questions.CreateAll(r.Context(), sess, draft.Payload(election.ID)); err != nil {
		log.Error().Err(err).Str("election_id", election.ID.String()).Msg("failed to save questions")
		h.renderEditor(w, r, failureStatus(err), election, draft, alertFor(err))
		return
	}

	log.Info().
		Str("election_id", election.ID.String()).
		Int("questions", len(draft.Questions)).
		Msg("questions saved")
	alert(h.sessions, w, r, "Questions saved")
	redirect(w, r, "/dashboard")
}

// editableElection loads the election and refuses built or ended ones.
func (h *QuestionHandler) editableElection(w http.ResponseWriter, r *http.Request) (entity.Election, bool) {
	log := zerolog.Ctx(r.Context())

	id, err := electionID(r)
	if err != nil {
		http.NotFound(w, r)
		return entity.Election{}, false
	}

	election, err := h.elections.Get(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		log.Error().Err(err).Str("election_id", id.String()).Msg("failed to fetch election")
		h.render.Error(w, r, failureStatus(err), alertFor(err), electionPath(id, ""))
		return entity.Election{}, false
	}

	if !election.Editable() {
		alert(h.sessions, w, r, "Questions cannot be changed once the election is built or has ended")
		redirect(w, r, electionPath(id, ""))
		return entity.Election{}, false
	}
	return election, true
}

func (h *QuestionHandler) renderEditor(w http.ResponseWriter, r *http.Request, status int, election entity.Election, draft *editor.Draft, msg string) {
	existing, err := h.questions.List(r.Context(), session.FromContext(r.Context()), election.ID)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("election_id", election.ID.String()).Msg("failed to fetch saved questions")
	}

	h.render.Render(w, r, status, "questions", map[string]any{
		"Nav":        true,
		"Election":   election,
		"Existing":   existing,
		"Draft":      draft,
		"MinOptions": editor.MinOptions,
		"Alert":      msg,
	})
}

func draftMessage(err error) string {
	var blank *editor.BlankError
	switch {
	case errors.As(err, &blank) && blank.Option < 0:
		return fmt.Sprintf("Question %d needs text", blank.Question+1)
	case errors.As(err, &blank):
		return fmt.Sprintf("Question %d, option %d is empty", blank.Question+1, blank.Option+1)
	case errors.Is(err, editor.ErrNoQuestions):
		return "Add at least one question"
	case errors.Is(err, editor.ErrMinOptions):
		return fmt.Sprintf("Every question needs at least %d options", editor.MinOptions)
	case errors.Is(err, editor.ErrOutOfRange):
		return "That question or option no longer exists"
	}
	return genericError
}
