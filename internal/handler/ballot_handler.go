package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

// BallotVariant is what differs between the organiser's preview of a ballot
// and the public voting page.
type BallotVariant struct {
	Name string
	// Path is the ballot page of an election, also its form action.
	Path func(id entity.ID) string
	// ThanksPath is where a voter lands after submitting.
	ThanksPath func(id entity.ID) string
	// ReturnPath, when set, is linked from the thank-you page.
	ReturnPath func(id entity.ID) string
	// RequireQuestions sends the organiser back to the election when there
	// is nothing to preview.
	RequireQuestions bool
}

var (
	PreviewBallot = BallotVariant{
		Name:             "preview",
		Path:             func(id entity.ID) string { return electionPath(id, "preview") },
		ThanksPath:       func(id entity.ID) string { return electionPath(id, "thanks") },
		ReturnPath:       func(id entity.ID) string { return electionPath(id, "") },
		RequireQuestions: true,
	}
	LiveBallot = BallotVariant{
		Name:       "live",
		Path:       func(id entity.ID) string { return electionPath(id, "live") },
		ThanksPath: func(entity.ID) string { return "/thanks" },
	}
)

type BallotHandler struct {
	ballots  *repository.BallotRepository
	sessions *session.Store
	render   *Renderer
	variant  BallotVariant
}

func NewBallotHandler(ballots *repository.BallotRepository, sessions *session.Store, render *Renderer, variant BallotVariant) *BallotHandler {
	return &BallotHandler{
		ballots:  ballots,
		sessions: sessions,
		render:   render,
		variant:  variant,
	}
}

func (h *BallotHandler) BallotPage(w http.ResponseWriter, r *http.Request) {
	preview, form, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderBallot(w, r, http.StatusOK, preview, form, "")
}

// Submit records the posted answers and sends the ballot. Nothing is sent
// while any question is unanswered.
func (h *BallotHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context()).With().Str("ballot", h.variant.Name).Logger()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	preview, form, ok := h.load(w, r)
	if !ok {
		return
	}

	for _, q := range form.Questions {
		for _, answer := range r.PostForm["q-"+q.ID.String()] {
			form.Answer(q.ID, answer)
		}
	}

	ballot, err := form.Ballot()
	if err != nil {
		log.Debug().Int("unanswered", len(form.Unanswered())).Msg("ballot incomplete")
		h.renderBallot(w, r, http.StatusUnprocessableEntity, preview, form, "Please answer all questions before submitting")
		return
	}

	msg, err := h.ballots.Submit(r.Context(), ballot)
	if err != nil {
		log.Error().Err(err).Str("election_id", form.ElectionID.String()).Msg("failed to submit ballot")
		h.renderBallot(w, r, failureStatus(err), preview, form, "Failed to submit ballot. Please try again.")
		return
	}

	log.Info().Str("election_id", form.ElectionID.String()).Msg("ballot submitted")
	if msg != "" {
		alert(h.sessions, w, r, msg)
	}
	redirect(w, r, h.variant.ThanksPath(form.ElectionID))
}

func (h *BallotHandler) Thanks(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if h.variant.ReturnPath != nil {
		if id, err := electionID(r); err == nil {
			data["ReturnURL"] = h.variant.ReturnPath(id)
		}
	}
	h.render.Render(w, r, http.StatusOK, "thanks", data)
}

func (h *BallotHandler) load(w http.ResponseWriter, r *http.Request) (entity.Preview, *entity.BallotForm, bool) {
	log := zerolog.Ctx(r.Context())

	id, err := electionID(r)
	if err != nil {
		http.NotFound(w, r)
		return entity.Preview{}, nil, false
	}

	preview, err := h.ballots.Preview(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		log.Error().Err(err).Str("election_id", id.String()).Str("ballot", h.variant.Name).Msg("failed to fetch ballot")
		h.render.Error(w, r, failureStatus(err), alertFor(err), "")
		return entity.Preview{}, nil, false
	}

	form := entity.NewBallotForm(id, preview.Election.Questions)
	if h.variant.RequireQuestions && len(form.Questions) == 0 {
		alert(h.sessions, w, r, "Add questions first")
		redirect(w, r, electionPath(id, ""))
		return entity.Preview{}, nil, false
	}
	return preview, form, true
}

func (h *BallotHandler) renderBallot(w http.ResponseWriter, r *http.Request, status int, preview entity.Preview, form *entity.BallotForm, msg string) {
	h.render.Render(w, r, status, "ballot", map[string]any{
		"OrgName":  preview.OrgName,
		"Election": preview.Election,
		"Form":     form,
		"Action":   h.variant.Path(form.ElectionID),
		"Alert":    msg,
	})
}
