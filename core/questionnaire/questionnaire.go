// Package questionnaire holds the immutable question set a session walks
// through and the per-type answer normalization rules.
package questionnaire

import (
	"encoding/json"
	"fmt"
)

// Questionnaire is the session's question document, loaded once at session
// start and never mutated afterwards.
type Questionnaire struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"projectId"`
	AssessmentID string     `json:"assessmentId"`
	Questions    []Question `json:"questions"`
}

// Parse decodes and validates a questionnaire document.
func Parse(data []byte) (*Questionnaire, error) {
	var questionnaire Questionnaire
	if err := json.Unmarshal(data, &questionnaire); err != nil {
		return nil, fmt.Errorf("failed to decode questionnaire document: %w", err)
	}

	if err := questionnaire.validate(); err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (q *Questionnaire) validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("questionnaire %q has no questions", q.ID)
	}

	seen := map[string]struct{}{}
	for i, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if _, duplicate := seen[question.ID]; duplicate {
			return fmt.Errorf("duplicate question id %q", question.ID)
		}
		seen[question.ID] = struct{}{}

		if _, err := ParseType(string(question.Type)); err != nil {
			return fmt.Errorf("question %q: %w", question.ID, err)
		}
		if question.Type.IsChoice() && len(question.Choices) == 0 {
			return fmt.Errorf("question %q is %s but has no choices", question.ID, question.Type)
		}
	}

	return nil
}
