package repository

import (
	"context"
	"net/http"
	"net/url"

	"voterz/internal/backend"
	"voterz/internal/entity"
)

type ResultsRepository struct {
	api *backend.Client
}

func NewResultsRepository(api *backend.Client) *ResultsRepository {
	return &ResultsRepository{api: api}
}

func (r *ResultsRepository) Get(ctx context.Context, sess entity.Session, electionID entity.ID) (entity.Results, error) {
	var res entity.Results
	q := url.Values{"electionId": {electionID.String()}}
	if err := r.api.Do(ctx, http.MethodGet, "/api/results", q, sess, nil, &res); err != nil {
		return entity.Results{}, err
	}
	return res, nil
}

// VoteCount is the number of votes cast across all questions of an election.
func (r *ResultsRepository) VoteCount(ctx context.Context, sess entity.Session, electionID entity.ID) (int, error) {
	res, err := r.Get(ctx, sess, electionID)
	if err != nil {
		return 0, err
	}
	return res.TotalVotes(), nil
}
