package entity

import (
	"bytes"
	"encoding/json"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionText           = "text"
)

// Option is a single answer choice. The backend sends options either as
// plain strings or as {id, text} objects.
type Option struct {
	ID   ID     `json:"id,omitempty"`
	Text string `json:"text"`
}

func (o *Option) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &o.Text)
	}
	type plain Option
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Option(p)
	return nil
}

type Question struct {
	ID      ID             `json:"id"`
	Text    string         `json:"question_text"`
	Type    string         `json:"question_type"`
	Options []Option       `json:"options"`
	Votes   map[string]int `json:"votes,omitempty"`
}

// Renderable reports whether the question has a type the ballot can show.
func (q Question) Renderable() bool {
	return q.Type == QuestionMultipleChoice || q.Type == QuestionText
}

func (q Question) OptionTexts() []string {
	texts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		texts = append(texts, o.Text)
	}
	return texts
}

func (q Question) HasOption(text string) bool {
	for _, o := range q.Options {
		if o.Text == text {
			return true
		}
	}
	return false
}

// VoteCount is the tally of one option, zero when nobody picked it.
func (q Question) VoteCount(option string) int {
	return q.Votes[option]
}

func (q Question) TotalVotes() int {
	total := 0
	for _, n := range q.Votes {
		total += n
	}
	return total
}

// QuestionDraft is the payload of the bulk question submission.
type QuestionDraft struct {
	ElectionID ID       `json:"election_id"`
	Text       string   `json:"question_text"`
	Type       string   `json:"question_type"`
	Options    []string `json:"options"`
}
