package provisioning

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
	"go.opentelemetry.io/otel/codes"
)

// Coordinator owns one session's resource lifecycle: it provisions the
// questionnaire and credentials at start and guarantees exactly-once cleanup
// at close, whichever close path fires first.
type Coordinator struct {
	store     Store
	sessionID string

	mu       sync.Mutex
	handlers []func()
	closed   bool

	cleanupOnce sync.Once
}

func NewCoordinator(store Store, sessionID string) *Coordinator {
	return &Coordinator{store: store, sessionID: sessionID}
}

func (c *Coordinator) SessionID() string { return c.sessionID }

// Provision resolves the session's questionnaire and bearer credentials.
// Missing or malformed artifacts fail the session before it starts.
func (c *Coordinator) Provision(ctx context.Context) (*questionnaire.Store, *Credentials, error) {
	ctx, span := tracer.Start(ctx, "provision session")
	defer span.End()

	document, credentials, err := c.store.Load(ctx, c.sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	store, err := questionnaire.NewStore(document)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrProvisioning, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	return store, credentials, nil
}

// OnClose registers a handler invoked after cleanup runs. Registration
// after close runs the handler immediately.
func (c *Coordinator) OnClose(handler func()) {
	if handler == nil {
		return
	}

	c.mu.Lock()
	alreadyClosed := c.closed
	if !alreadyClosed {
		c.handlers = append(c.handlers, handler)
	}
	c.mu.Unlock()

	if alreadyClosed {
		handler()
	}
}

// Close removes the session's storage artifacts and notifies close handlers.
// It is idempotent: every call after the first is a no-op.
func (c *Coordinator) Close(ctx context.Context) {
	c.cleanupOnce.Do(func() {
		ctx, span := tracer.Start(ctx, "cleanup session")
		defer span.End()

		if err := c.store.Cleanup(ctx, c.sessionID); err != nil {
			err = fmt.Errorf("failed to clean up session %s: %w", c.sessionID, err)
			log.Printf("Warning: %v", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		c.mu.Lock()
		handlers := c.handlers
		c.handlers = nil
		c.closed = true
		c.mu.Unlock()

		for _, handler := range handlers {
			handler()
		}
	})
}
