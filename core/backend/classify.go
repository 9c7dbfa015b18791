package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// IntentAccepted is the classification intent that advances the
// questionnaire; every other intent keeps the session on the same question.
const IntentAccepted = "Good Response"

// Message is one role-tagged entry of a classification result.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Intent  string `json:"intent,omitempty"`
}

// Classification is the consumed form of a classify response: at most one
// assistant message and at most one user message.
type Classification struct {
	Assistant *Message
	User      *Message
}

// Accepted reports whether the user's answer was judged acceptable.
func (c Classification) Accepted() bool {
	return c.User != nil && c.User.Intent == IntentAccepted
}

// Intent returns the user-intent label, or "unknown" when the user message
// is missing.
func (c Classification) Intent() string {
	if c.User == nil {
		return "unknown"
	}
	return c.User.Intent
}

type classifyRequest struct {
	Question             string    `json:"question"`
	ResponseType         string    `json:"responsetype"`
	PossibleResponses    []string  `json:"possible_responses"`
	UserComment          string    `json:"user_comment"`
	AdditionalKnowledge  string    `json:"additional_knowledge"`
	QuestionExplaination string    `json:"question_explaination"`
	ChatHistory          []Message `json:"chatHistory"`
}

type classifyResponse struct {
	Response []Message `json:"response"`
}

// Classify submits the user's raw answer for intent classification against
// the current question. The call carries no authorization by contract.
func (c *Client) Classify(ctx context.Context, question questionnaire.Question, answerText string) (*Classification, error) {
	ctx, span := tracer.Start(ctx, "classify answer")
	defer span.End()
	span.SetAttributes(
		attribute.String("question.id", question.ID),
		attribute.String("question.type", string(question.Type)),
	)

	possible := question.ChoiceValues()
	if possible == nil {
		possible = []string{}
	}

	requestBodyBytes, err := json.Marshal(classifyRequest{
		Question:          question.Text,
		ResponseType:      string(question.Type),
		PossibleResponses: possible,
		UserComment:       answerText,
		ChatHistory:       []Message{},
	})
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.classifyURL, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: classify request failed: %v", ErrBackendUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		err := fmt.Errorf("%w: non-OK HTTP status: %s", ErrBackendUnavailable, resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		err = fmt.Errorf("%w: failed to decode classify response: %v", ErrMalformedResponse, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	classification := Classification{}
	for _, message := range parsed.Response {
		switch message.Role {
		case "assistant":
			if classification.Assistant == nil {
				msg := message
				classification.Assistant = &msg
			}
		case "user":
			if classification.User == nil {
				msg := message
				classification.User = &msg
			}
		}
	}

	if classification.Assistant == nil {
		err := fmt.Errorf("%w: classify response has no assistant message", ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("classification.intent", classification.Intent()))
	return &classification, nil
}
