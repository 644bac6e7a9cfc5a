package repository

import (
	"context"
	"net/http"
	"net/url"

	"voterz/internal/backend"
	"voterz/internal/entity"
)

type BallotRepository struct {
	api *backend.Client
}

func NewBallotRepository(api *backend.Client) *BallotRepository {
	return &BallotRepository{api: api}
}

// Preview fetches the voter facing election. An anonymous session fetches
// without a bearer token.
func (r *BallotRepository) Preview(ctx context.Context, sess entity.Session, electionID entity.ID) (entity.Preview, error) {
	var p entity.Preview
	q := url.Values{"electionId": {electionID.String()}}
	if err := r.api.Do(ctx, http.MethodGet, "/api/preview", q, sess, nil, &p); err != nil {
		return entity.Preview{}, err
	}
	if p.Election.ID == "" {
		p.Election.ID = electionID
	}
	return p, nil
}

// Submit sends the whole ballot at once and returns the backend's message.
func (r *BallotRepository) Submit(ctx context.Context, ballot entity.Ballot) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := r.api.Do(ctx, http.MethodPost, "/api/submit_ballot", nil, entity.Session{}, ballot, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
