package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/radpretation/surveyvoice-core/core/backend"
	"github.com/radpretation/surveyvoice-core/core/events"
	"github.com/radpretation/surveyvoice-core/core/questionnaire"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	apologyBackendDown = "Sorry, something went wrong."
	apologyNoAssistant = "Sorry, could not generate a response."
	completedMessage   = "No more questions available."
)

var errGatewayNotConfigured = errors.New("backend gateway not configured")

// runTurn drives one user turn through the state machine: classify the
// answer, persist it when accepted, fetch the next question, and emit the
// matching events. Any recoverable fault returns the session to
// AwaitingAnswer on the same question; the participant's next utterance is
// the retry.
func (o *Orchestrator) runTurn(ctx context.Context, transcript string) error {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil
	}

	state, question, hasQuestion := o.dialogue.snapshot()
	if state != StateAwaitingAnswer || !hasQuestion {
		log.Printf("Warning: ignoring turn received in %s state", state)
		return nil
	}

	o.emit(ctx, events.NewUserUtterance(transcript))

	o.transitionTo(StateEvaluating)

	classification, err := o.classify(ctx, question, transcript)
	if err != nil {
		o.transitionTo(StateAwaitingAnswer)

		apology := apologyBackendDown
		if errors.Is(err, backend.ErrMalformedResponse) {
			apology = apologyNoAssistant
		}
		o.emit(ctx, events.NewAssistantUtterance(apology))
		return fmt.Errorf("failed to classify answer: %w", err)
	}

	if !classification.Accepted() {
		logger.InfoContext(ctx, "answer not accepted",
			"question_id", question.ID, "intent", classification.Intent())
		o.transitionTo(StateAwaitingAnswer)
		o.emit(ctx, events.NewAssistantUtterance(classification.Assistant.Content))
		return nil
	}

	// Accepted() guarantees the user message is present.
	answerValues := question.NormalizeAnswer(classification.Assistant.Content, classification.User.Content)

	// Persistence is best-effort: a failure is logged and never blocks the
	// advance.
	if err := o.persist(ctx, question.ID, answerValues); err != nil {
		log.Printf("Failed to persist answer for question %s: %v", question.ID, err)
	}

	next, err := o.fetchNext(ctx, question.ID, answerValues)
	if err != nil {
		// Stay on the current question: an error here must never be read as
		// completion.
		o.transitionTo(StateAwaitingAnswer)
		return fmt.Errorf("failed to fetch next question: %w", err)
	}

	if next == nil {
		o.completeDialogue()
		o.emit(ctx, events.NewCompleted(completedMessage))
		return nil
	}

	o.advanceTo(ctx, *next)
	o.emit(ctx, events.NewNextQuestion(*next))
	return nil
}

func (o *Orchestrator) classify(ctx context.Context, question questionnaire.Question, transcript string) (*backend.Classification, error) {
	if o.gateway == nil {
		return nil, errGatewayNotConfigured
	}
	return o.gateway.Classify(ctx, question, transcript)
}

func (o *Orchestrator) persist(ctx context.Context, questionID string, answerValues []string) error {
	if o.gateway == nil {
		return errGatewayNotConfigured
	}
	return o.gateway.Persist(ctx, questionID, answerValues, o.store.AssessmentID())
}

func (o *Orchestrator) fetchNext(ctx context.Context, questionID string, answerValues []string) (*questionnaire.Question, error) {
	if o.gateway == nil {
		return nil, errGatewayNotConfigured
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.StringSlice("turn.answer_values", answerValues))

	return o.gateway.FetchNext(ctx, backend.NextQuestionRequest{
		AssessmentID:      o.store.AssessmentID(),
		QuestionnaireID:   o.store.ID(),
		CurrentQuestionID: questionID,
		ProjectID:         o.store.ProjectID(),
		Responses:         map[string][]string{questionID: answerValues},
	})
}
