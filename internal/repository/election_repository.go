package repository

import (
	"context"
	"net/http"
	"net/url"

	"voterz/internal/backend"
	"voterz/internal/entity"
)

type ElectionRepository struct {
	api *backend.Client
}

func NewElectionRepository(api *backend.Client) *ElectionRepository {
	return &ElectionRepository{api: api}
}

// List returns the elections created by the session's organiser.
func (r *ElectionRepository) List(ctx context.Context, sess entity.Session) ([]entity.Election, error) {
	var elections []entity.Election
	if err := r.api.Do(ctx, http.MethodGet, "/api/election", nil, sess, nil, &elections); err != nil {
		return nil, err
	}
	return elections, nil
}

// Create validates the form and creates the election. Nothing is sent when
// validation fails.
func (r *ElectionRepository) Create(ctx context.Context, sess entity.Session, form entity.NewElection) (entity.Election, error) {
	if err := form.Validate(); err != nil {
		return entity.Election{}, err
	}
	var created entity.Election
	if err := r.api.Do(ctx, http.MethodPost, "/api/election", nil, sess, form, &created); err != nil {
		return entity.Election{}, err
	}
	if created.ID == "" {
		return entity.Election{}, &RepositoryError{"no election id received in response"}
	}
	return created, nil
}

func (r *ElectionRepository) Get(ctx context.Context, sess entity.Session, id entity.ID) (entity.Election, error) {
	var election entity.Election
	q := url.Values{"id": {id.String()}}
	if err := r.api.Do(ctx, http.MethodGet, "/api/election", q, sess, nil, &election); err != nil {
		return entity.Election{}, err
	}
	if election.ID == "" {
		election.ID = id
	}
	return election, nil
}

// Build locks the question set and makes the election votable.
func (r *ElectionRepository) Build(ctx context.Context, sess entity.Session, id entity.ID) error {
	q := url.Values{"electionId": {id.String()}}
	return r.api.Do(ctx, http.MethodPost, "/api/build", q, sess, nil, nil)
}
