package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

// ElectionHandler covers creating an election, its details page and the
// build action.
type ElectionHandler struct {
	elections *repository.ElectionRepository
	results   *repository.ResultsRepository
	sessions  *session.Store
	render    *Renderer
	publicURL string
}

func NewElectionHandler(
	elections *repository.ElectionRepository,
	results *repository.ResultsRepository,
	sessions *session.Store,
	render *Renderer,
	publicURL string,
) *ElectionHandler {
	return &ElectionHandler{
		elections: elections,
		results:   results,
		sessions:  sessions,
		render:    render,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (h *ElectionHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "create_election", map[string]any{
		"Nav":  true,
		"Form": entity.NewElection{},
	})
}

func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := entity.NewElection{
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		StartDate: strings.TrimSpace(r.PostFormValue("startDate")),
		EndDate:   strings.TrimSpace(r.PostFormValue("endDate")),
	}
	data := map[string]any{"Nav": true, "Form": form}

	if err := form.Validate(); err != nil {
		switch {
		case errors.Is(err, entity.ErrEndBeforeStart):
			data["EndDateError"] = "End date cannot be before or same as the start date."
		case errors.Is(err, entity.ErrInvalidDate):
			data["EndDateError"] = "Please enter valid start and end dates."
		default:
			data["Error"] = "Title is required."
		}
		h.render.Render(w, r, http.StatusUnprocessableEntity, "create_election", data)
		return
	}

	created, err := h.elections.Create(r.Context(), session.FromContext(r.Context()), form)
	if err != nil {
		log.Error().Err(err).Str("title", form.Title).Msg("failed to create election")
		data["Alert"] = alertFor(err)
		h.render.Render(w, r, failureStatus(err), "create_election", data)
		return
	}

	log.Info().Str("election_id", created.ID.String()).Msg("election created")
	redirect(w, r, electionPath(created.ID, ""))
}

func (h *ElectionHandler) Details(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	sess := session.FromContext(r.Context())

	id, err := electionID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	election, err := h.elections.Get(r.Context(), sess, id)
	if err != nil {
		log.Error().Err(err).Str("election_id", id.String()).Msg("failed to fetch election")
		h.render.Error(w, r, failureStatus(err), alertFor(err), "/dashboard")
		return
	}

	votes, err := h.results.VoteCount(r.Context(), sess, id)
	if err != nil {
		log.Warn().Err(err).Str("election_id", id.String()).Msg("failed to fetch vote count")
		votes = 0
	}

	h.render.Render(w, r, http.StatusOK, "election_details", map[string]any{
		"Nav":         true,
		"Election":    election,
		"Status":      election.ElectionStatus(),
		"StatusLabel": statusLabel(election.ElectionStatus()),
		"Ended":       election.Ended(),
		"Editable":    election.Editable(),
		"VoteCount":   votes,
		"PreviewURL":  electionPath(id, "preview"),
		"LiveURL":     h.publicURL + electionPath(id, "live"),
	})
}

// Build makes the election votable. Elections without questions are never
// sent to the backend.
func (h *ElectionHandler) Build(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	sess := session.FromContext(r.Context())

	id, err := electionID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	back := electionPath(id, "")

	election, err := h.elections.Get(r.Context(), sess, id)
	if err != nil {
		log.Error().Err(err).Str("election_id", id.String()).Msg("failed to fetch election before build")
		alert(h.sessions, w, r, "Failed to build election. Please try again.")
		redirect(w, r, back)
		return
	}

	switch {
	case election.IsBuilt:
		redirect(w, r, back)
		return
	case election.QuestionCount() < 1:
		alert(h.sessions, w, r, "Add questions before building")
		redirect(w, r, back)
		return
	}

	if err := h.elections.Build(r.Context(), sess, id); err != nil {
		log.Error().Err(err).Str("election_id", id.String()).Msg("failed to build election")
		alert(h.sessions, w, r, "Failed to build election. Please try again.")
		redirect(w, r, back)
		return
	}

	log.Info().Str("election_id", id.String()).Msg("election built")
	alert(h.sessions, w, r, "Election is now active")
	redirect(w, r, back)
}

func statusLabel(s entity.ElectionStatus) string {
	switch s {
	case entity.StatusActive:
		return "Active"
	case entity.StatusEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}
