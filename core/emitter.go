package orchestration

import (
	"context"
	"fmt"

	"github.com/radpretation/surveyvoice-core/core/events"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// emit is the single outward path for session events: every event reaches
// the broadcaster, the event callback, and, for spoken events, the speech
// output together. Call sites never speak and broadcast separately, so the
// two cannot drift apart.
func (o *Orchestrator) emit(ctx context.Context, event events.Event) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("emit " + string(event.Kind()))

	if o.orchestrateOptions.onEvent != nil {
		o.orchestrateOptions.onEvent(event)
	}

	if o.broadcaster != nil {
		if err := o.broadcaster.Publish(event); err != nil {
			recordedErr := fmt.Errorf("failed to broadcast %s event: %w", event.Kind(), err)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	}

	if spoken, ok := event.(events.Spoken); ok {
		if err := o.speech.Say(ctx, spoken.SpokenText()); err != nil {
			recordedErr := fmt.Errorf("failed to speak %s event: %w", event.Kind(), err)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	}
}
