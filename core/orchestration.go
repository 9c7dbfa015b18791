// Package orchestration drives one voice questionnaire session: it owns the
// dialogue state machine, serializes turn processing, and fans session
// events out to speech and broadcast observers together.
package orchestration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/radpretation/surveyvoice-core/core/events"
	"github.com/radpretation/surveyvoice-core/core/questionnaire"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator is one session's dialogue core. Sessions do not share state:
// construct one orchestrator per questionnaire run.
type Orchestrator struct {
	sessionID string

	store    *questionnaire.Store
	dialogue *dialogueState
	runtime  *sessionRuntime

	gateway     BackendGateway
	speech      speechOutput
	broadcaster Broadcaster
	lifecycle   Lifecycle

	closeOnce sync.Once

	orchestrateOptions OrchestrateOptions
	baseContext        context.Context
}

func NewOrchestrator(store *questionnaire.Store, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		sessionID:   uuid.NewString(),
		store:       store,
		dialogue:    newDialogueState(store.First()),
		runtime:     newSessionRuntime(),
		baseContext: context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Orchestrator) SessionID() string { return o.sessionID }

// State returns the dialogue machine's current state.
func (o *Orchestrator) State() State {
	state, _, _ := o.dialogue.snapshot()
	return state
}

// CurrentQuestion returns the question the session is waiting on. The
// second return is false once the session has completed.
func (o *Orchestrator) CurrentQuestion() (questionnaire.Question, bool) {
	_, question, hasQuestion := o.dialogue.snapshot()
	return question, hasQuestion
}

// Orchestrate starts the session: the turn worker begins draining the queue
// and the opening question is spoken and broadcast.
//
// Contract: call Orchestrate at most once per orchestrator instance.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	if o.runtime.isClosed() {
		log.Println("Warning: orchestrator already closed, skipping Orchestrate")
		return
	}

	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx

	if started := o.runtime.start(o); started {
		go func() {
			<-ctx.Done()
			o.Close()
		}()
	}

	ctx, span := tracer.Start(ctx, "open session")
	defer span.End()

	o.emit(ctx, events.NewFirstQuestion(o.store.First()))
}

// SubmitTranscript feeds a completed user utterance into the session. Turns
// are processed strictly one at a time; a turn arriving while another is in
// flight waits in the queue. Empty utterances and turns after completion are
// dropped.
func (o *Orchestrator) SubmitTranscript(transcript string) {
	if state := o.State(); state.Terminal() {
		log.Printf("Warning: ignoring turn, session is %s", state)
		return
	}

	o.runtime.enqueue(turnQueueItem{transcript: transcript, queuedAt: time.Now()})
}

// Close shuts the session down: the turn worker drains out, the speech
// client is closed, and the lifecycle coordinator runs its one-time cleanup.
// Cleanup runs outside the turn queue so a stuck in-flight call cannot
// deadlock it.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.runtime.end()
		o.runtime.awaitCompletion()

		ctx := context.WithoutCancel(o.baseContext)

		if err := o.speech.Close(ctx); err != nil {
			recordedErr := fmt.Errorf("failed to close speech output: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if o.lifecycle != nil {
			o.lifecycle.Close(ctx)
		}
	})
}

func (o *Orchestrator) transitionTo(state State) {
	o.dialogue.transition(state)
	o.notifyStateChanged()
}

func (o *Orchestrator) advanceTo(ctx context.Context, next questionnaire.Question) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("advance to next question")
	o.dialogue.advance(next)
	o.notifyStateChanged()
}

func (o *Orchestrator) completeDialogue() {
	o.dialogue.complete()
	o.notifyStateChanged()
}

func (o *Orchestrator) notifyStateChanged() {
	if o.orchestrateOptions.onStateChanged != nil {
		o.orchestrateOptions.onStateChanged(o.State())
	}
}
