package events

import (
	"encoding/json"
	"testing"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

func TestUtteranceWireShapes(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{NewUserUtterance("I like red"), `{"speaker":"user","text":"I like red"}`},
		{NewAssistantUtterance("Could you pick one of the options?"), `{"speaker":"assistant","text":"Could you pick one of the options?"}`},
		{NewCompleted("No more questions available."), `{"type":"completed","message":"No more questions available."}`},
	}

	for _, tc := range cases {
		payload, err := json.Marshal(tc.event)
		if err != nil {
			t.Fatalf("failed to marshal %s event: %v", tc.event.Kind(), err)
		}
		if string(payload) != tc.want {
			t.Fatalf("expected %s event to serialize as %s, got %s", tc.event.Kind(), tc.want, payload)
		}
	}
}

func TestQuestionEventsCarryTheFullQuestion(t *testing.T) {
	question := questionnaire.Question{
		ID:      "q1",
		Text:    "What is your favorite color?",
		Type:    questionnaire.TypeSingleChoice,
		Choices: []questionnaire.Choice{{Value: "Red"}, {Value: "Blue"}},
	}

	payload, err := json.Marshal(NewFirstQuestion(question))
	if err != nil {
		t.Fatalf("failed to marshal first question event: %v", err)
	}

	var decoded struct {
		Type     string                 `json:"type"`
		Question questionnaire.Question `json:"question"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("failed to decode first question payload: %v", err)
	}
	if decoded.Type != "first_question" {
		t.Fatalf("expected type first_question, got %q", decoded.Type)
	}
	if decoded.Question.ID != "q1" || len(decoded.Question.Choices) != 2 {
		t.Fatalf("expected the full question on the wire, got %+v", decoded.Question)
	}

	payload, err = json.Marshal(NewNextQuestion(question))
	if err != nil {
		t.Fatalf("failed to marshal next question event: %v", err)
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("failed to decode next question payload: %v", err)
	}
	if decoded.Type != "next_question" {
		t.Fatalf("expected type next_question, got %q", decoded.Type)
	}
}

func TestFirstQuestionSpokenTextOpensTheSession(t *testing.T) {
	question := questionnaire.Question{
		ID:      "q1",
		Text:    "What is your favorite color?",
		Type:    questionnaire.TypeSingleChoice,
		Choices: []questionnaire.Choice{{Value: "Red"}, {Value: "Blue"}},
	}

	want := "Let's begin. What is your favorite color?. Options: Red, Blue."
	if got := NewFirstQuestion(question).SpokenText(); got != want {
		t.Fatalf("expected spoken text %q, got %q", want, got)
	}
}

func TestNextQuestionSpokenTextIsTheBarePromptForOpenText(t *testing.T) {
	question := questionnaire.Question{ID: "q2", Text: "Anything else?", Type: questionnaire.TypeOpenText}

	if got := NewNextQuestion(question).SpokenText(); got != "Anything else?" {
		t.Fatalf("expected open text question to be spoken without an options clause, got %q", got)
	}
}

func TestSpokenEventsImplementSpoken(t *testing.T) {
	question := questionnaire.Question{ID: "q1", Text: "A?", Type: questionnaire.TypeOpenText}

	spoken := []Event{
		NewFirstQuestion(question),
		NewNextQuestion(question),
		NewAssistantUtterance("clarify"),
		NewCompleted("done"),
	}
	for _, event := range spoken {
		if _, ok := event.(Spoken); !ok {
			t.Fatalf("expected %s event to be spoken", event.Kind())
		}
	}

	if _, ok := Event(NewUserUtterance("hi")).(Spoken); ok {
		t.Fatalf("expected user utterances to never be spoken back")
	}
}
