// Package broadcast fans session events out to attached observers as
// frame-delimited JSON, one object per event.
package broadcast

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/radpretation/surveyvoice-core/core/events"
)

const defaultObserverBuffer = 32

// Broadcaster delivers each published event to every attached observer.
// Delivery to one observer never blocks or fails delivery to the others; an
// observer that stops draining its feed is detached, not waited on.
type Broadcaster struct {
	mu        sync.Mutex
	observers map[string]*Observer
	closed    bool
}

func New() *Broadcaster {
	return &Broadcaster{observers: map[string]*Observer{}}
}

// Observer is one attached event feed.
type Observer struct {
	id     string
	feed   chan []byte
	once   sync.Once
	detach func(id string)
}

// Events is the observer's feed of serialized events. It is closed when the
// observer detaches or the broadcaster shuts down.
func (o *Observer) Events() <-chan []byte { return o.feed }

// Close detaches the observer. Safe to call more than once.
func (o *Observer) Close() {
	o.once.Do(func() {
		o.detach(o.id)
		close(o.feed)
	})
}

// Attach registers a new observer. Events published before attachment are
// not replayed.
func (b *Broadcaster) Attach() *Observer {
	observer := &Observer{
		id:   uuid.NewString(),
		feed: make(chan []byte, defaultObserverBuffer),
	}
	observer.detach = b.forget

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(observer.feed)
		observer.once.Do(func() {})
		return observer
	}
	b.observers[observer.id] = observer
	return observer
}

func (b *Broadcaster) forget(id string) {
	b.mu.Lock()
	delete(b.observers, id)
	b.mu.Unlock()
}

// Publish serializes the event once and hands it to every attached observer.
// An observer whose feed is full is considered unreachable and is detached;
// that is not an error for the publisher.
func (b *Broadcaster) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize %s event: %w", event.Kind(), err)
	}

	b.mu.Lock()
	stale := []*Observer{}
	for _, observer := range b.observers {
		select {
		case observer.feed <- payload:
		default:
			stale = append(stale, observer)
		}
	}
	for _, observer := range stale {
		delete(b.observers, observer.id)
	}
	b.mu.Unlock()

	for _, observer := range stale {
		log.Printf("Warning: detaching unreachable event observer %s", observer.id)
		observer.once.Do(func() { close(observer.feed) })
	}

	return nil
}

// ObserverCount reports how many observers are currently attached.
func (b *Broadcaster) ObserverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// Close detaches every observer and rejects future attachments.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	observers := make([]*Observer, 0, len(b.observers))
	for _, observer := range b.observers {
		observers = append(observers, observer)
	}
	b.observers = map[string]*Observer{}
	b.closed = true
	b.mu.Unlock()

	for _, observer := range observers {
		observer.once.Do(func() { close(observer.feed) })
	}
}
