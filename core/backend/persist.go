package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type persistRequest struct {
	QuestionID   string   `json:"questionId"`
	ChoiceValue  []string `json:"choiceValue"`
	AssessmentID string   `json:"assessmentId"`
}

// Persist records an accepted answer. It is best-effort: callers log a
// failure and advance regardless, so the returned error never blocks a turn.
func (c *Client) Persist(ctx context.Context, questionID string, answerValues []string, assessmentID string) error {
	ctx, span := tracer.Start(ctx, "persist answer")
	defer span.End()
	span.SetAttributes(attribute.String("question.id", questionID))

	requestBodyBytes, err := json.Marshal(persistRequest{
		QuestionID:   questionID,
		ChoiceValue:  answerValues,
		AssessmentID: assessmentID,
	})
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.persistURL, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: persist request failed: %v", ErrBackendUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		err := fmt.Errorf("%w: non-OK HTTP status: %s", ErrBackendUnavailable, resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
