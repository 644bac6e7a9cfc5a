package entity

import (
	"errors"
	"strings"
	"time"
)

type ElectionStatus string

const (
	StatusActive  ElectionStatus = "active"
	StatusEnded   ElectionStatus = "ended"
	StatusUnknown ElectionStatus = "unknown"
)

func ParseElectionStatus(s string) ElectionStatus {
	switch ElectionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusEnded:
		return StatusEnded
	default:
		return StatusUnknown
	}
}

type Election struct {
	ID             ID         `json:"id"`
	Title          string     `json:"title"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	IsBuilt        bool       `json:"is_built"`
	Status         string     `json:"status"`
	OrgName        string     `json:"orgname"`
	QuestionsCount int        `json:"questions_count"`
	Questions      []Question `json:"questions,omitempty"`
}

func (e Election) ElectionStatus() ElectionStatus {
	return ParseElectionStatus(e.Status)
}

func (e Election) Ended() bool {
	return e.ElectionStatus() == StatusEnded
}

// QuestionCount prefers the backend's questions_count and falls back to the
// embedded question list.
func (e Election) QuestionCount() int {
	if e.QuestionsCount > 0 {
		return e.QuestionsCount
	}
	return len(e.Questions)
}

// Editable reports whether questions may still be added.
func (e Election) Editable() bool {
	return !e.IsBuilt && !e.Ended()
}

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrInvalidDate    = errors.New("invalid date")
	ErrEndBeforeStart = errors.New("end date must be after start date")
)

// NewElection is the create-election form.
type NewElection struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Validate checks the form before anything is sent to the backend. The end
// date must be strictly after the start date.
func (n NewElection) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	start, err := ParseDate(n.StartDate)
	if err != nil {
		return err
	}
	end, err := ParseDate(n.EndDate)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
}

// ParseDate accepts the formats produced by date inputs and by the backend.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
