package events

import "encoding/json"

// KindCompleted identifies the end of the questionnaire.
const KindCompleted Kind = "session.completed"

// Completed marks the questionnaire as finished; no further turns are
// processed after it is emitted.
type Completed struct {
	Base
	Message string
}

// NewCompleted creates a completion event.
func NewCompleted(message string) Completed {
	return Completed{Base: NewBase(KindCompleted), Message: message}
}

func (e Completed) String() string     { return e.Message }
func (e Completed) SpokenText() string { return e.Message }

func (e Completed) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{Type: "completed", Message: e.Message})
}
