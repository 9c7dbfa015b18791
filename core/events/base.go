package events

import "time"

type Kind string

// Event is a single outward session occurrence. Every event serializes to
// exactly one JSON object on the observer feed.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Spoken is implemented by events that are also voiced to the participant.
// The orchestrator's emitter uses it to keep speech and broadcast in sync.
type Spoken interface {
	Event
	SpokenText() string
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
