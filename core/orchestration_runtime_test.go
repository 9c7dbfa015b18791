package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/radpretation/surveyvoice-core/core/backend"
	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

func TestEnqueueDropsTurnsWhenTheQueueIsFull(t *testing.T) {
	runtime := newSessionRuntime()

	for i := 0; i < turnQueueCapacity; i++ {
		if !runtime.enqueue(turnQueueItem{transcript: "queued", queuedAt: time.Now()}) {
			t.Fatalf("expected turn %d to be accepted", i)
		}
	}

	if runtime.enqueue(turnQueueItem{transcript: "overflow", queuedAt: time.Now()}) {
		t.Fatalf("expected a full queue to drop the turn")
	}
	if got := runtime.queuedTurnCount(); got != turnQueueCapacity {
		t.Fatalf("expected %d queued turns, got %d", turnQueueCapacity, got)
	}
}

func TestEnqueueAfterEndIsRejected(t *testing.T) {
	runtime := newSessionRuntime()
	runtime.end()

	if runtime.enqueue(turnQueueItem{transcript: "too late", queuedAt: time.Now()}) {
		t.Fatalf("expected enqueue after end to be rejected")
	}
	if !runtime.isClosed() {
		t.Fatalf("expected the runtime to report closed")
	}
}

func TestAwaitCompletionReturnsImmediatelyWhenNeverStarted(t *testing.T) {
	runtime := newSessionRuntime()
	runtime.end()

	done := make(chan struct{})
	go func() {
		runtime.awaitCompletion()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("awaitCompletion must not block for a runtime that never started")
	}
}

func TestPanickingTurnFaultsTheSession(t *testing.T) {
	store := newTestStore(t)
	gateway := &scriptedGateway{
		classifyFn: func(questionnaire.Question, string) (*backend.Classification, error) {
			panic("classifier blew up")
		},
	}
	o := NewOrchestrator(store, WithBackendGateway(gateway))
	defer o.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o.Orchestrate(ctx)
	o.SubmitTranscript("red")

	awaitState(t, o, StateFaulted)

	// a faulted session drops everything that follows
	o.SubmitTranscript("red again")
	time.Sleep(100 * time.Millisecond)
	if got := gateway.classifyCalls.Load(); got != 1 {
		t.Fatalf("expected no further classify calls after a fault, got %d", got)
	}
}
