package events

import "encoding/json"

// KindUserUtterance identifies a completed user utterance.
const KindUserUtterance Kind = "utterance.user"

// UserUtterance carries the recognized text of a finished user turn.
type UserUtterance struct {
	Base
	Text string
}

// NewUserUtterance creates a user utterance event.
func NewUserUtterance(text string) UserUtterance {
	return UserUtterance{Base: NewBase(KindUserUtterance), Text: text}
}

func (e UserUtterance) String() string { return e.Text }

func (e UserUtterance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	}{Speaker: "user", Text: e.Text})
}

// KindAssistantUtterance identifies a spoken assistant message.
const KindAssistantUtterance Kind = "utterance.assistant"

// AssistantUtterance carries assistant text addressed to the participant,
// either a clarification or an apology.
type AssistantUtterance struct {
	Base
	Text string
}

// NewAssistantUtterance creates an assistant utterance event.
func NewAssistantUtterance(text string) AssistantUtterance {
	return AssistantUtterance{Base: NewBase(KindAssistantUtterance), Text: text}
}

func (e AssistantUtterance) String() string     { return e.Text }
func (e AssistantUtterance) SpokenText() string { return e.Text }

func (e AssistantUtterance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	}{Speaker: "assistant", Text: e.Text})
}
