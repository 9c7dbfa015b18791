package questionnaire

import (
	"reflect"
	"testing"
)

func TestParseTypeRejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"single_choice", "multiple_choice", "open_text"} {
		if _, err := ParseType(raw); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}

	if _, err := ParseType("freeform"); err == nil {
		t.Fatalf("expected unknown type to be rejected")
	}
}

func TestPromptAppendsOptionsClauseForChoiceQuestions(t *testing.T) {
	question := Question{
		Text: "What is your favorite color?",
		Type: TypeSingleChoice,
		Choices: []Choice{
			{Value: "Red"},
			{Value: "Blue"},
		},
	}

	want := "What is your favorite color?. Options: Red, Blue"
	if got := question.Prompt(); got != want {
		t.Fatalf("expected prompt %q, got %q", want, got)
	}
}

func TestPromptOmitsOptionsClauseForOpenText(t *testing.T) {
	question := Question{Text: "Anything else?", Type: TypeOpenText}

	if got := question.Prompt(); got != "Anything else?" {
		t.Fatalf("expected bare question text, got %q", got)
	}
}

func TestNormalizeAnswerSplitsChoiceContentOnCommas(t *testing.T) {
	question := Question{
		Type: TypeMultipleChoice,
		Choices: []Choice{
			{Value: "Red"},
			{Value: "Blue"},
			{Value: "Green"},
		},
	}

	got := question.NormalizeAnswer("Red, Blue.", "red and blue I think")
	want := []string{"Red", "Blue"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeAnswerDropsEmptySegments(t *testing.T) {
	question := Question{
		Type:    TypeSingleChoice,
		Choices: []Choice{{Value: "Yes"}},
	}

	got := question.NormalizeAnswer("Yes, ,.", "yes")
	want := []string{"Yes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeAnswerKeepsUserWordsForOpenText(t *testing.T) {
	question := Question{Type: TypeOpenText}

	got := question.NormalizeAnswer("Noted, thank you.", "The staff were very helpful.")
	want := []string{"The staff were very helpful."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected user content verbatim, got %v", got)
	}
}

func TestTrimSentencePunctuation(t *testing.T) {
	cases := map[string]string{
		"Red.":        "Red",
		"Red!?":       "Red",
		"  Red.  ":    "Red",
		"Red":         "Red",
		"Dr. No":      "Dr. No",
		"Is it red?.": "Is it red",
	}

	for input, want := range cases {
		if got := TrimSentencePunctuation(input); got != want {
			t.Fatalf("TrimSentencePunctuation(%q): expected %q, got %q", input, want, got)
		}
	}
}
