package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"voterz/internal/backend"
	"voterz/internal/entity"
	"voterz/internal/repository"
	"voterz/internal/session"
)

const openParam = "open"

type ResultsHandler struct {
	results *repository.ResultsRepository
	render  *Renderer
}

func NewResultsHandler(results *repository.ResultsRepository, render *Renderer) *ResultsHandler {
	return &ResultsHandler{results: results, render: render}
}

type resultRow struct {
	Option string
	Votes  int
	Total  int
}

type resultPanel struct {
	Question  entity.Question
	Open      bool
	ToggleURL string
	Rows      []resultRow
}

func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	id, err := electionID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	res, err := h.results.Get(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		log.Error().Err(err).Str("election_id", id.String()).Msg("failed to fetch results")
		h.render.Render(w, r, http.StatusBadGateway, "results", map[string]any{
			"Nav":   true,
			"Error": resultsError(err),
		})
		return
	}

	open := parseOpenPanels(r.URL.Query()[openParam])
	panels := make([]resultPanel, 0, len(res.Election.Questions))
	for _, q := range res.Election.Questions {
		panels = append(panels, resultPanel{
			Question:  q,
			Open:      open[q.ID],
			ToggleURL: open.toggleURL(r.URL.Path, q.ID),
			Rows:      resultRows(q),
		})
	}

	h.render.Render(w, r, http.StatusOK, "results", map[string]any{
		"Nav":        true,
		"OrgName":    res.OrgName,
		"Election":   res.Election,
		"TotalVotes": res.TotalVotes(),
		"Panels":     panels,
	})
}

// resultRows lists every option with its tally. Votes for answers that are
// not among the options (free text questions) follow in name order.
func resultRows(q entity.Question) []resultRow {
	total := q.TotalVotes()
	rows := make([]resultRow, 0, len(q.Options))
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.OptionTexts() {
		seen[opt] = true
		rows = append(rows, resultRow{Option: opt, Votes: q.VoteCount(opt), Total: total})
	}

	var extra []string
	for answer := range q.Votes {
		if !seen[answer] {
			extra = append(extra, answer)
		}
	}
	slices.Sort(extra)
	for _, answer := range extra {
		rows = append(rows, resultRow{Option: answer, Votes: q.VoteCount(answer), Total: total})
	}
	return rows
}

func resultsError(err error) string {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return "Error fetching results: Network Error"
	}
	msg := fmt.Sprintf("Error fetching results: %d - %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
	if body := strings.TrimSpace(apiErr.Body); body != "" {
		msg += "\n" + body
	}
	return msg
}

// openPanels is the set of result panels currently expanded, carried in the
// query string as repeated "open" values.
type openPanels map[entity.ID]bool

func parseOpenPanels(values []string) openPanels {
	open := make(openPanels, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			open[entity.ID(v)] = true
		}
	}
	return open
}

// toggled returns a copy of the set with id flipped. Other panels keep their
// state.
func (p openPanels) toggled(id entity.ID) openPanels {
	next := make(openPanels, len(p)+1)
	for k := range p {
		next[k] = true
	}
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	return next
}

func (p openPanels) query() url.Values {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	if len(ids) == 0 {
		return url.Values{}
	}
	return url.Values{openParam: ids}
}

func (p openPanels) toggleURL(path string, id entity.ID) string {
	u := url.URL{Path: path, RawQuery: p.toggled(id).query().Encode(), Fragment: "q-" + id.String()}
	return u.String()
}
