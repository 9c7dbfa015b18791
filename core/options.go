package orchestration

import (
	"context"

	"github.com/radpretation/surveyvoice-core/core/backend"
	"github.com/radpretation/surveyvoice-core/core/events"
	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

type OrchestratorOption func(*Orchestrator)

// BackendGateway is the three-call questionnaire service surface one turn
// walks through: classify, persist, fetch next. [backend.Client] satisfies
// it.
type BackendGateway interface {
	Classify(ctx context.Context, question questionnaire.Question, answerText string) (*backend.Classification, error)
	Persist(ctx context.Context, questionID string, answerValues []string, assessmentID string) error
	FetchNext(ctx context.Context, request backend.NextQuestionRequest) (*questionnaire.Question, error)
}

func WithBackendGateway(gateway BackendGateway) OrchestratorOption {
	return func(o *Orchestrator) { o.gateway = gateway }
}

// SpeechOutput voices text to the participant.
type SpeechOutput interface {
	Say(ctx context.Context, text string) error
}

func WithSpeechOutput(client SpeechOutput) OrchestratorOption {
	return func(o *Orchestrator) { o.speech.set(client) }
}

// Broadcaster receives every emitted session event.
// [broadcast.Broadcaster] satisfies it.
type Broadcaster interface {
	Publish(event events.Event) error
}

func WithBroadcaster(broadcaster Broadcaster) OrchestratorOption {
	return func(o *Orchestrator) { o.broadcaster = broadcaster }
}

// Lifecycle is invoked exactly once when the session closes, regardless of
// which close path fired. [provisioning.Coordinator] satisfies it.
type Lifecycle interface {
	Close(ctx context.Context)
}

func WithLifecycle(lifecycle Lifecycle) OrchestratorOption {
	return func(o *Orchestrator) { o.lifecycle = lifecycle }
}

func WithSessionID(sessionID string) OrchestratorOption {
	return func(o *Orchestrator) {
		if sessionID != "" {
			o.sessionID = sessionID
		}
	}
}

type OrchestrateOptions struct {
	onEvent        func(event events.Event)
	onStateChanged func(state State)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithEventCallback registers a callback invoked inline for every emitted
// session event, before broadcast and speech delivery.
func WithEventCallback(callback func(event events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onEvent = callback
	}
}

// WithStateChangedCallback registers a callback for dialogue state
// transitions.
func WithStateChangedCallback(callback func(state State)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onStateChanged = callback
	}
}
