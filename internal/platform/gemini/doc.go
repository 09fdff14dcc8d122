// Package gemini provides an implementation of the generation.Summarizer
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates one summarization
// request into a single Models.GenerateContent call through the
// google.golang.org/genai client and maps the outcome onto the generation
// package's error taxonomy.
//
// Error mapping:
//   - no API key configured: generation.ErrNotConfigured, without any network call
//   - API, transport or cancellation errors: generation.ErrModelUnavailable
//   - prompt or candidate blocked by safety filters: generation.ErrModelUnavailable
//   - no candidates, or only blank text: generation.ErrEmptyModelOutput
//
// Requests are never retried here; callers decide whether to try again.
package gemini
