package orchestration

import "context"

// speechOutput is the facade over the optional speech collaborator. A
// session without one still broadcasts every event; speaking just becomes a
// no-op.
type speechOutput struct {
	client SpeechOutput
}

func (s *speechOutput) set(client SpeechOutput) {
	if s != nil {
		s.client = client
	}
}

func (s *speechOutput) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechOutput) Say(ctx context.Context, text string) error {
	if !s.isConfigured() {
		return nil
	}

	return s.client.Say(ctx, text)
}

func (s *speechOutput) Close(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}

	switch c := s.client.(type) {
	case interface{ Close(context.Context) error }:
		return c.Close(ctx)
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		return c.Close()
	case interface{ Close() }:
		c.Close()
	}

	return nil
}
