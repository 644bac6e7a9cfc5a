package repository

import (
	"context"
	"net/http"
	"net/url"

	"voterz/internal/backend"
	"voterz/internal/entity"
)

type QuestionRepository struct {
	api *backend.Client
}

func NewQuestionRepository(api *backend.Client) *QuestionRepository {
	return &QuestionRepository{api: api}
}

func (r *QuestionRepository) List(ctx context.Context, sess entity.Session, electionID entity.ID) ([]entity.Question, error) {
	var questions []entity.Question
	q := url.Values{"election_id": {electionID.String()}}
	if err := r.api.Do(ctx, http.MethodGet, "/api/questions", q, sess, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateAll submits every drafted question in a single request.
func (r *QuestionRepository) CreateAll(ctx context.Context, sess entity.Session, drafts []entity.QuestionDraft) error {
	if len(drafts) == 0 {
		return &RepositoryError{"no questions to submit"}
	}
	return r.api.Do(ctx, http.MethodPost, "/api/questions", nil, sess, drafts, nil)
}
