package editor

import (
	"errors"
	"net/url"
	"testing"
)

func TestNewDraft(t *testing.T) {
	d := New()
	if len(d.Questions) != 1 || len(d.Questions[0].Options) != MinOptions {
		t.Fatalf("unexpected initial draft %+v", d)
	}
}

func TestRemoveOptionKeepsMinimum(t *testing.T) {
	d := New()
	d.AddOption(0)

	for _, o := range []int{0, 1} {
		if err := d.RemoveOption(0, o); !errors.Is(err, ErrMinOptions) {
			t.Errorf("RemoveOption(0, %d) = %v, want ErrMinOptions", o, err)
		}
	}
	if err := d.RemoveOption(0, 2); err != nil {
		t.Fatalf("RemoveOption(0, 2): %v", err)
	}
	if got := len(d.Questions[0].Options); got != MinOptions {
		t.Errorf("options = %d, want %d", got, MinOptions)
	}
	if err := d.RemoveOption(0, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("RemoveOption out of range = %v", err)
	}
}

func TestAddRemoveQuestion(t *testing.T) {
	d := New()
	d.Questions[0].Text = "first"
	d.AddQuestion()
	d.Questions[1].Text = "second"
	d.AddQuestion()
	d.Questions[2].Text = "third"

	if err := d.RemoveQuestion(1); err != nil {
		t.Fatalf("RemoveQuestion: %v", err)
	}
	if len(d.Questions) != 2 || d.Questions[0].Text != "first" || d.Questions[1].Text != "third" {
		t.Errorf("order not kept: %+v", d.Questions)
	}
	if err := d.RemoveQuestion(7); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("RemoveQuestion(7) = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		check func(error) bool
	}{
		{
			name:  "empty",
			draft: Draft{},
			check: func(err error) bool { return errors.Is(err, ErrNoQuestions) },
		},
		{
			name:  "blank question text",
			draft: Draft{Questions: []Question{{Text: " ", Options: []string{"a", "b"}}}},
			check: func(err error) bool {
				var b *BlankError
				return errors.As(err, &b) && b.Question == 0 && b.Option == -1
			},
		},
		{
			name:  "blank option",
			draft: Draft{Questions: []Question{{Text: "q", Options: []string{"a", ""}}}},
			check: func(err error) bool {
				var b *BlankError
				return errors.As(err, &b) && b.Option == 1
			},
		},
		{
			name:  "valid",
			draft: Draft{Questions: []Question{{Text: "q", Options: []string{"a", "b", "c"}}}},
			check: func(err error) bool { return err == nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.draft.Validate(); !tt.check(err) {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestParseFormRoundTrip(t *testing.T) {
	form := url.Values{}
	form.Set(TextField(0), "Head girl")
	form.Set(OptionField(0, 0), "Ada")
	form.Set(OptionField(0, 1), "Grace")
	form.Set(OptionField(0, 2), "Hedy")
	form.Set(TextField(1), "Head boy")
	form.Set(OptionField(1, 0), "Alan")

	d := ParseForm(form)
	if len(d.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(d.Questions))
	}
	if got := d.Questions[0].Options; len(got) != 3 || got[2] != "Hedy" {
		t.Errorf("question 0 options = %v", got)
	}
	if got := d.Questions[1].Options; len(got) != MinOptions || got[1] != "" {
		t.Errorf("question 1 should be padded to %d options, got %v", MinOptions, got)
	}

	payload := d.Payload("9")
	if payload[0].ElectionID != "9" || payload[0].Type != "multiple_choice" || payload[0].Text != "Head girl" {
		t.Errorf("unexpected payload %+v", payload[0])
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{in: "add-question", want: Action{Kind: AddQuestion}},
		{in: "submit", want: Action{Kind: Submit}},
		{in: "remove-question:2", want: Action{Kind: RemoveQuestion, Question: 2}},
		{in: "add-option:1", want: Action{Kind: AddOption, Question: 1}},
		{in: "remove-option:1:3", want: Action{Kind: RemoveOption, Question: 1, Option: 3}},
		{in: "remove-option:1", wantErr: true},
		{in: "add-option:x", wantErr: true},
		{in: "explode", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAction(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestApply(t *testing.T) {
	d := New()
	steps := []string{"add-question", "add-option:1", "remove-option:1:2", "remove-question:0"}
	for _, s := range steps {
		a, err := ParseAction(s)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", s, err)
		}
		if err := d.Apply(a); err != nil {
			t.Fatalf("Apply(%q): %v", s, err)
		}
	}
	if len(d.Questions) != 1 || len(d.Questions[0].Options) != MinOptions {
		t.Errorf("unexpected draft %+v", d.Questions)
	}
}
