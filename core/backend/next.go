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

// NextQuestionRequest identifies the position in the questionnaire the
// evaluation service should advance from.
type NextQuestionRequest struct {
	AssessmentID      string
	QuestionnaireID   string
	CurrentQuestionID string
	ProjectID         string
	Responses         map[string][]string
}

// evaluateRequest is the wire form. The assesmentId spelling is part of the
// evaluate service contract.
type evaluateRequest struct {
	AssesmentID       string              `json:"assesmentId"`
	QuestionnaireID   string              `json:"questionnaireId"`
	CurrentQuestionID string              `json:"currentQuestionId"`
	ProjectID         string              `json:"projectId"`
	Responses         map[string][]string `json:"responses"`
}

// FetchNext asks the evaluation service for the question that follows the
// current one. A nil question with a nil error is the explicit end of the
// questionnaire; it is only reported when the response carries a literal
// null data field, so an error can never masquerade as completion.
func (c *Client) FetchNext(ctx context.Context, request NextQuestionRequest) (*questionnaire.Question, error) {
	ctx, span := tracer.Start(ctx, "fetch next question")
	defer span.End()
	span.SetAttributes(attribute.String("question.id", request.CurrentQuestionID))

	requestBodyBytes, err := json.Marshal(evaluateRequest{
		AssesmentID:       request.AssessmentID,
		QuestionnaireID:   request.QuestionnaireID,
		CurrentQuestionID: request.CurrentQuestionID,
		ProjectID:         request.ProjectID,
		Responses:         request.Responses,
	})
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.evaluateURL, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: evaluate request failed: %v", ErrBackendUnavailable, err)
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

	var parsed map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		err = fmt.Errorf("%w: failed to decode evaluate response: %v", ErrMalformedResponse, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	data, ok := parsed["data"]
	if !ok {
		err := fmt.Errorf("%w: evaluate response has no data field", ErrAmbiguousCompletion)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		span.SetAttributes(attribute.Bool("questionnaire.completed", true))
		return nil, nil
	}

	var next questionnaire.Question
	if err := json.Unmarshal(data, &next); err != nil {
		err = fmt.Errorf("%w: failed to decode next question: %v", ErrMalformedResponse, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if next.ID == "" {
		err := fmt.Errorf("%w: next question has no id", ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("question.next_id", next.ID))
	return &next, nil
}
