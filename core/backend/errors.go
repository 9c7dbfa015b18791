package backend

import "errors"

var (
	// ErrBackendUnavailable marks a transport-level failure: the request never
	// produced a well-formed HTTP response.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse marks a response that arrived but does not match
	// the wire contract.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrAmbiguousCompletion marks an evaluate response that cannot be read as
	// either a next question or an explicit end of the questionnaire. It must
	// never be treated as completion.
	ErrAmbiguousCompletion = errors.New("ambiguous completion signal")
)
