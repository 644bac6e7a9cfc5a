package repository

import (
	"context"
	"net/http"

	"voterz/internal/backend"
	"voterz/internal/entity"
)

type UserRepository struct {
	api *backend.Client
}

func NewUserRepository(api *backend.Client) *UserRepository {
	return &UserRepository{api: api}
}

// Signup creates an organiser account. It does not sign the user in.
func (r *UserRepository) Signup(ctx context.Context, user entity.User) error {
	return r.api.Do(ctx, http.MethodPost, "/api/signup", nil, entity.Session{}, user, nil)
}

// Login exchanges credentials for a session holding the access token.
func (r *UserRepository) Login(ctx context.Context, creds entity.Credentials) (entity.Session, error) {
	var res entity.LoginResult
	if err := r.api.Do(ctx, http.MethodPost, "/api/login", nil, entity.Session{}, creds, &res); err != nil {
		return entity.Session{}, err
	}
	if res.AccessToken == "" {
		return entity.Session{}, &RepositoryError{"login response carried no access token"}
	}
	return entity.Session{Token: res.AccessToken}, nil
}

type RepositoryError struct {
	Message string
}

func (e *RepositoryError) Error() string {
	return "repository error: " + e.Message
}
