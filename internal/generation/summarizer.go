package generation

import "context"

// Summarizer wraps a single prompt-in, text-out exchange with a language model.
// Implementations perform exactly one request per call and never retry.
type Summarizer interface {
	// Summarize sends prompt to the model and returns its text response.
	//
	// Parameters:
	//   - ctx: Context for the request; cancellation aborts the call
	//   - prompt: The complete prompt text
	//
	// Returns:
	//   - The non-empty model output
	//   - An error wrapping ErrModelUnavailable, ErrEmptyModelOutput or ErrNotConfigured
	Summarize(ctx context.Context, prompt string) (string, error)
}

// SummarizerFunc adapts an ordinary function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, prompt string) (string, error)

// Summarize calls f(ctx, prompt).
func (f SummarizerFunc) Summarize(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
