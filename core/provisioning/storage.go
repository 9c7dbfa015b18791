// Package provisioning resolves a session's questionnaire document and
// bearer token from session-scoped storage and guarantees their one-time
// cleanup when the session ends.
package provisioning

import (
	"context"
	"errors"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

// ErrProvisioning marks missing or malformed session artifacts. A session
// that fails provisioning never starts.
var ErrProvisioning = errors.New("session provisioning failed")

// Store abstracts where session artifacts live. Implementations must treat
// Cleanup of already-removed artifacts as a no-op, not a failure.
type Store interface {
	Load(ctx context.Context, sessionID string) (*questionnaire.Questionnaire, *Credentials, error)
	Cleanup(ctx context.Context, sessionID string) error
}
