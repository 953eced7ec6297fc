package core

import "errors"

// Failure classes for a single review pipeline run. Call sites wrap these
// with fmt.Errorf("%w: ...") so logs keep their context while callers can
// still classify with errors.Is.
var (
	// ErrMalformedEvent marks a webhook payload missing required fields.
	// The delivery is still acknowledged; the event is dropped.
	ErrMalformedEvent = errors.New("malformed webhook event")

	// ErrAuthUnavailable marks a failed installation-token mint or exchange.
	// It aborts the pipeline before any repository read happens.
	ErrAuthUnavailable = errors.New("credential acquisition failed")

	// ErrUpstreamUnavailable marks a failed read from or write to the
	// hosting platform.
	ErrUpstreamUnavailable = errors.New("hosting platform unavailable")

	// ErrAnalysisUnavailable marks a failed or unusable completion-provider
	// response.
	ErrAnalysisUnavailable = errors.New("analysis provider unavailable")

	// ErrEmptyResult marks a no-op terminal state: nothing to review or
	// nothing to publish. It is not a failure.
	ErrEmptyResult = errors.New("nothing to review")
)
