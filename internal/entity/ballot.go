package entity

import (
	"errors"
	"strings"
)

var ErrUnanswered = errors.New("unanswered questions")

type BallotResponse struct {
	QuestionID ID     `json:"question_id"`
	Answer     string `json:"answer"`
}

type Ballot struct {
	ElectionID ID               `json:"election_id"`
	Responses  []BallotResponse `json:"responses"`
}

// BallotForm tracks one answer per question until the ballot is submitted.
type BallotForm struct {
	ElectionID ID
	Questions  []Question
	answers    map[ID]string
}

// NewBallotForm keeps only the questions a voter can answer.
func NewBallotForm(electionID ID, questions []Question) *BallotForm {
	shown := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Renderable() {
			shown = append(shown, q)
		}
	}
	return &BallotForm{
		ElectionID: electionID,
		Questions:  shown,
		answers:    make(map[ID]string),
	}
}

// Answer records the answer to a question, replacing any earlier one. Blank
// answers clear it. Multiple choice answers must name one of the options.
func (b *BallotForm) Answer(questionID ID, answer string) bool {
	q, ok := b.question(questionID)
	if !ok {
		return false
	}
	if strings.TrimSpace(answer) == "" {
		delete(b.answers, questionID)
		return true
	}
	if q.Type == QuestionMultipleChoice && !q.HasOption(answer) {
		return false
	}
	b.answers[questionID] = answer
	return true
}

func (b *BallotForm) AnswerOf(questionID ID) string {
	return b.answers[questionID]
}

func (b *BallotForm) Unanswered() []ID {
	var ids []ID
	for _, q := range b.Questions {
		if _, ok := b.answers[q.ID]; !ok {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

func (b *BallotForm) Complete() bool {
	return len(b.Unanswered()) == 0
}

// Ballot returns the responses in question order. It fails with
// ErrUnanswered while any question is left blank.
func (b *BallotForm) Ballot() (Ballot, error) {
	if !b.Complete() {
		return Ballot{}, ErrUnanswered
	}
	responses := make([]BallotResponse, 0, len(b.Questions))
	for _, q := range b.Questions {
		responses = append(responses, BallotResponse{QuestionID: q.ID, Answer: b.answers[q.ID]})
	}
	return Ballot{ElectionID: b.ElectionID, Responses: responses}, nil
}

func (b *BallotForm) question(id ID) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
