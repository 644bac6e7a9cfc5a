// Package editor holds the question editor's draft: an ordered list of
// multiple choice questions that is edited in memory and submitted in one
// go.
package editor

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"voterz/internal/entity"
)

// MinOptions is the number of options every question keeps. Options below
// this index cannot be removed.
const MinOptions = 2

var (
	ErrNoQuestions   = errors.New("no questions in draft")
	ErrMinOptions    = fmt.Errorf("a question needs at least %d options", MinOptions)
	ErrOutOfRange    = errors.New("no such question or option")
	ErrUnknownAction = errors.New("unknown editor action")
)

// BlankError points at the first empty field of a draft.
type BlankError struct {
	Question int
	Option   int // -1 when the question text itself is blank
}

func (e *BlankError) Error() string {
	if e.Option < 0 {
		return fmt.Sprintf("question %d has no text", e.Question+1)
	}
	return fmt.Sprintf("question %d, option %d is empty", e.Question+1, e.Option+1)
}

type Question struct {
	Text    string
	Options []string
}

type Draft struct {
	Questions []Question
}

// New returns a draft holding one blank question.
func New() *Draft {
	d := &Draft{}
	d.AddQuestion()
	return d
}

func (d *Draft) AddQuestion() {
	d.Questions = append(d.Questions, Question{Options: make([]string, MinOptions)})
}

func (d *Draft) RemoveQuestion(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrOutOfRange
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

func (d *Draft) AddOption(q int) error {
	if q < 0 || q >= len(d.Questions) {
		return ErrOutOfRange
	}
	d.Questions[q].Options = append(d.Questions[q].Options, "")
	return nil
}

func (d *Draft) RemoveOption(q, o int) error {
	if q < 0 || q >= len(d.Questions) || o < 0 || o >= len(d.Questions[q].Options) {
		return ErrOutOfRange
	}
	if o < MinOptions {
		return ErrMinOptions
	}
	opts := d.Questions[q].Options
	d.Questions[q].Options = append(opts[:o], opts[o+1:]...)
	return nil
}

// Validate checks the draft is ready for submission.
func (d *Draft) Validate() error {
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return &BlankError{Question: i, Option: -1}
		}
		if len(q.Options) < MinOptions {
			return ErrMinOptions
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				return &BlankError{Question: i, Option: j}
			}
		}
	}
	return nil
}

// Payload converts a validated draft into the bulk submission body.
func (d *Draft) Payload(electionID entity.ID) []entity.QuestionDraft {
	drafts := make([]entity.QuestionDraft, 0, len(d.Questions))
	for _, q := range d.Questions {
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = strings.TrimSpace(o)
		}
		drafts = append(drafts, entity.QuestionDraft{
			ElectionID: electionID,
			Text:       strings.TrimSpace(q.Text),
			Type:       entity.QuestionMultipleChoice,
			Options:    opts,
		})
	}
	return drafts
}

// Field names used by the editor form.
func TextField(q int) string      { return fmt.Sprintf("q-%d-text", q) }
func OptionField(q, o int) string { return fmt.Sprintf("q-%d-opt-%d", q, o) }

// ParseForm rebuilds a draft from posted form values. Questions and options
// are read in index order until the first missing index.
func ParseForm(form url.Values) *Draft {
	d := &Draft{}
	for i := 0; ; i++ {
		texts, ok := form[TextField(i)]
		if !ok {
			break
		}
		q := Question{Text: first(texts)}
		for j := 0; ; j++ {
			opt, ok := form[OptionField(i, j)]
			if !ok {
				break
			}
			q.Options = append(q.Options, first(opt))
		}
		for len(q.Options) < MinOptions {
			q.Options = append(q.Options, "")
		}
		d.Questions = append(d.Questions, q)
	}
	return d
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

type ActionKind string

const (
	AddQuestion    ActionKind = "add-question"
	RemoveQuestion ActionKind = "remove-question"
	AddOption      ActionKind = "add-option"
	RemoveOption   ActionKind = "remove-option"
	Submit         ActionKind = "submit"
)

// Action is the button pressed on the editor form, e.g. "remove-option:0:2".
type Action struct {
	Kind     ActionKind
	Question int
	Option   int
}

func (a Action) String() string {
	switch a.Kind {
	case RemoveQuestion, AddOption:
		return fmt.Sprintf("%s:%d", a.Kind, a.Question)
	case RemoveOption:
		return fmt.Sprintf("%s:%d:%d", a.Kind, a.Question, a.Option)
	default:
		return string(a.Kind)
	}
}

func ParseAction(s string) (Action, error) {
	parts := strings.Split(s, ":")
	kind := ActionKind(parts[0])
	args := make([]int, 0, 2)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
		}
		args = append(args, n)
	}

	want := map[ActionKind]int{
		AddQuestion:    0,
		Submit:         0,
		RemoveQuestion: 1,
		AddOption:      1,
		RemoveOption:   2,
	}
	n, ok := want[kind]
	if !ok || n != len(args) {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}

	a := Action{Kind: kind}
	if n > 0 {
		a.Question = args[0]
	}
	if n > 1 {
		a.Option = args[1]
	}
	return a, nil
}

// Apply performs an editing action. Submit is left to the caller.
func (d *Draft) Apply(a Action) error {
	switch a.Kind {
	case AddQuestion:
		d.AddQuestion()
		return nil
	case RemoveQuestion:
		return d.RemoveQuestion(a.Question)
	case AddOption:
		return d.AddOption(a.Question)
	case RemoveOption:
		return d.RemoveOption(a.Question, a.Option)
	case Submit:
		return nil
	}
	return ErrUnknownAction
}
