package events

import (
	"encoding/json"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

// KindFirstQuestion identifies the session's opening question.
const KindFirstQuestion Kind = "question.first"

// FirstQuestion announces the question the session opens with.
type FirstQuestion struct {
	Base
	Question questionnaire.Question
}

// NewFirstQuestion creates a first question event.
func NewFirstQuestion(question questionnaire.Question) FirstQuestion {
	return FirstQuestion{Base: NewBase(KindFirstQuestion), Question: question}
}

func (e FirstQuestion) String() string { return e.Question.Text }

// SpokenText opens the session before reading out the question.
func (e FirstQuestion) SpokenText() string {
	return "Let's begin. " + e.Question.Prompt() + "."
}

func (e FirstQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string                 `json:"type"`
		Question questionnaire.Question `json:"question"`
	}{Type: "first_question", Question: e.Question})
}

// KindNextQuestion identifies an advance to the next question.
const KindNextQuestion Kind = "question.next"

// NextQuestion announces the question the session advanced to after an
// accepted answer.
type NextQuestion struct {
	Base
	Question questionnaire.Question
}

// NewNextQuestion creates a next question event.
func NewNextQuestion(question questionnaire.Question) NextQuestion {
	return NextQuestion{Base: NewBase(KindNextQuestion), Question: question}
}

func (e NextQuestion) String() string     { return e.Question.Text }
func (e NextQuestion) SpokenText() string { return e.Question.Prompt() }

func (e NextQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string                 `json:"type"`
		Question questionnaire.Question `json:"question"`
	}{Type: "next_question", Question: e.Question})
}
