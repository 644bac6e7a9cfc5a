package entity

import (
	"errors"
	"testing"
)

func testQuestions() []Question {
	return []Question{
		{ID: "1", Text: "Head girl", Type: QuestionMultipleChoice, Options: []Option{{Text: "Ada"}, {Text: "Grace"}}},
		{ID: "2", Text: "Anything else?", Type: QuestionText},
		{ID: "3", Text: "Rank them", Type: "ranking"},
	}
}

func TestBallotFormSkipsUnknownTypes(t *testing.T) {
	form := NewBallotForm("9", testQuestions())
	if len(form.Questions) != 2 {
		t.Fatalf("want 2 renderable questions, got %d", len(form.Questions))
	}
}

func TestBallotFormRequiresEveryAnswer(t *testing.T) {
	form := NewBallotForm("9", testQuestions())
	form.Answer("1", "Ada")

	if form.Complete() {
		t.Fatal("form with an unanswered question reported complete")
	}
	if _, err := form.Ballot(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("Ballot() error = %v, want ErrUnanswered", err)
	}
	if got := form.Unanswered(); len(got) != 1 || got[0] != "2" {
		t.Errorf("Unanswered() = %v", got)
	}
}

func TestBallotFormLastAnswerWins(t *testing.T) {
	form := NewBallotForm("9", testQuestions())
	form.Answer("1", "Ada")
	form.Answer("1", "Grace")
	form.Answer("2", "More snacks")

	ballot, err := form.Ballot()
	if err != nil {
		t.Fatalf("Ballot: %v", err)
	}
	want := []BallotResponse{{QuestionID: "1", Answer: "Grace"}, {QuestionID: "2", Answer: "More snacks"}}
	if len(ballot.Responses) != len(want) {
		t.Fatalf("got %d responses, want %d", len(ballot.Responses), len(want))
	}
	for i := range want {
		if ballot.Responses[i] != want[i] {
			t.Errorf("response %d = %+v, want %+v", i, ballot.Responses[i], want[i])
		}
	}
	if ballot.ElectionID != "9" {
		t.Errorf("election id = %q", ballot.ElectionID)
	}
}

func TestBallotFormRejectsUnknownOption(t *testing.T) {
	form := NewBallotForm("9", testQuestions())
	if form.Answer("1", "Linus") {
		t.Error("accepted an option that is not on the ballot")
	}
	if form.Answer("42", "Ada") {
		t.Error("accepted an answer to an unknown question")
	}
	if !form.Answer("2", "   ") {
		t.Error("blank text answer should be accepted as a clear")
	}
	if form.AnswerOf("2") != "" {
		t.Error("blank text answer should leave the question unanswered")
	}
}
