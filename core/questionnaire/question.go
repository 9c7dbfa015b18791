package questionnaire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the closed set of question kinds a questionnaire may contain.
type Type string

const (
	TypeSingleChoice   Type = "single_choice"
	TypeMultipleChoice Type = "multiple_choice"
	TypeOpenText       Type = "open_text"
)

// ParseType validates a raw question type value against the closed set.
func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeSingleChoice, TypeMultipleChoice, TypeOpenText:
		return t, nil
	}
	return "", fmt.Errorf("unknown question type %q", raw)
}

// IsChoice reports whether answers to this type are picked from the
// question's choice values rather than free text.
func (t Type) IsChoice() bool {
	return t == TypeSingleChoice || t == TypeMultipleChoice
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

type Question struct {
	ID      string   `json:"_id"`
	Text    string   `json:"text"`
	Type    Type     `json:"type"`
	Choices []Choice `json:"choices"`
}

// ChoiceValues returns the ordered choice values, empty for open text.
func (q Question) ChoiceValues() []string {
	if len(q.Choices) == 0 {
		return nil
	}

	values := make([]string, 0, len(q.Choices))
	for _, choice := range q.Choices {
		values = append(values, choice.Value)
	}
	return values
}

// Prompt is the spoken form of the question: the text followed by the
// comma-joined choice values, with the options clause omitted when the
// question has none.
func (q Question) Prompt() string {
	values := q.ChoiceValues()
	if len(values) == 0 {
		return q.Text
	}

	return fmt.Sprintf("%s. Options: %s", q.Text, strings.Join(values, ", "))
}

// NormalizeAnswer converts an accepted turn into discrete answer values.
//
// Choice questions take the assistant's cleaned content split on commas;
// open text takes the user's own words verbatim. Trailing sentence
// punctuation is stripped before the assistant content is treated as a
// structured value.
func (q Question) NormalizeAnswer(assistantContent, userContent string) []string {
	if !q.Type.IsChoice() {
		return []string{userContent}
	}

	cleaned := TrimSentencePunctuation(assistantContent)
	values := []string{}
	for _, part := range strings.Split(cleaned, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

// TrimSentencePunctuation strips trailing sentence punctuation from free-form
// acceptance text so it can be compared against choice values.
func TrimSentencePunctuation(text string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ".!?"))
}
