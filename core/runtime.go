package orchestration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const turnQueueCapacity = 10

// turnQueueItem is one completed user utterance waiting for its pass through
// the state machine.
type turnQueueItem struct {
	transcript string
	queuedAt   time.Time
}

// sessionRuntime serializes turn processing: a single worker goroutine
// drains the queue, so no two turns ever run their backend round trips
// concurrently.
type sessionRuntime struct {
	queue   chan turnQueueItem
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newSessionRuntime() *sessionRuntime {
	return &sessionRuntime{
		queue:   make(chan turnQueueItem, turnQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (runtime *sessionRuntime) start(o *Orchestrator) (started bool) {
	if runtime.isClosed() {
		return false
	}

	runtime.startOnce.Do(func() {
		if runtime.isClosed() {
			return
		}

		started = true
		runtime.started.Store(true)
		go func() {
			defer close(runtime.done)

			for {
				select {
				case <-runtime.closeCh:
					return
				case queuedTurn := <-runtime.queue:
					if runtime.isClosed() {
						return
					}
					runtime.processQueuedTurn(o, queuedTurn)
				}
			}
		}()
	})

	return started
}

func (runtime *sessionRuntime) end() {
	runtime.endOnce.Do(func() {
		close(runtime.closeCh)
	})
}

func (runtime *sessionRuntime) awaitCompletion() {
	if runtime.started.Load() {
		<-runtime.done
	}
}

func (runtime *sessionRuntime) isClosed() bool {
	select {
	case <-runtime.closeCh:
		return true
	default:
		return false
	}
}

// enqueue queues a turn behind any in-flight one. A full queue means the
// participant is far ahead of the backend; the turn is dropped with a
// warning rather than blocking the caller.
func (runtime *sessionRuntime) enqueue(item turnQueueItem) bool {
	if runtime.isClosed() {
		return false
	}

	select {
	case <-runtime.closeCh:
		return false
	case runtime.queue <- item:
		return true
	default:
		log.Printf("Warning: turn queue full, dropping turn %q", item.transcript)
		return false
	}
}

func (runtime *sessionRuntime) queuedTurnCount() int {
	return len(runtime.queue)
}

func (runtime *sessionRuntime) processQueuedTurn(o *Orchestrator, queuedTurn turnQueueItem) {
	turnCtx, turnCancel := context.WithCancel(o.baseContext)
	defer turnCancel()

	go func() {
		select {
		case <-runtime.closeCh:
			turnCancel()
		case <-turnCtx.Done():
		}
	}()

	ctx, span := tracer.Start(turnCtx, "process turn")
	defer span.End()

	queuedTime := time.Since(queuedTurn.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("turn.queued_time", queuedTime)))
	span.SetAttributes(
		attribute.Float64("turn.queued_time", queuedTime),
		attribute.Int("turn.queued_turns", runtime.queuedTurnCount()),
	)

	err := func() (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				o.dialogue.fault()
				err = fmt.Errorf("turn processing panicked: %v", recovered)
			}
		}()

		return o.runTurn(ctx, queuedTurn.transcript)
	}()
	if err != nil {
		err = fmt.Errorf("failed to process turn: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
