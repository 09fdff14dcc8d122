package generation

import "errors"

// Common errors returned by Summarizer implementations.
var (
	// ErrModelUnavailable is returned when the model cannot produce a response:
	// authentication, quota, transport failures, cancellation or a safety block.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrEmptyModelOutput is returned when the model answered without usable text.
	ErrEmptyModelOutput = errors.New("language model returned no text")

	// ErrNotConfigured is returned when no credential is configured.
	// It is reported at call time, before any network work.
	ErrNotConfigured = errors.New("language model not configured")
)
