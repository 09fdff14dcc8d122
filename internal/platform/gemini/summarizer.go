package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration leaves the model name empty.
const DefaultModel = "gemini-1.5-flash"

// contentGenerator is the subset of *genai.Models used by the summarizer.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiSummarizer implements generation.Summarizer using the Gemini API.
type GeminiSummarizer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// models performs the API call; nil when no API key is configured
	models contentGenerator

	// model is the name of the Gemini model to use
	model string
}

var _ generation.Summarizer = (*GeminiSummarizer)(nil)

// NewGeminiSummarizer creates a GeminiSummarizer from the LLM configuration.
//
// A missing API key is not an error here: the returned summarizer reports
// generation.ErrNotConfigured from every Summarize call instead, so the rest
// of the service can start without model credentials.
//
// Parameters:
//   - ctx: Context for client construction
//   - logger: A structured logger for operation logging (nil means slog.Default())
//   - cfg: LLM configuration containing the API key and model name
//
// Returns:
//   - A GeminiSummarizer, or an error if the client cannot be created
func NewGeminiSummarizer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiSummarizer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	s := &GeminiSummarizer{
		logger: logger.With(slog.String("component", "gemini_summarizer")),
		model:  model,
	}

	if cfg.GeminiAPIKey == "" {
		s.logger.WarnContext(ctx, "Gemini API key not configured, summaries will be unavailable")
		return s, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s.models = client.Models
	return s, nil
}

// newWithGenerator builds a summarizer around an arbitrary content generator.
func newWithGenerator(logger *slog.Logger, models contentGenerator, model string) *GeminiSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiSummarizer{
		logger: logger.With(slog.String("component", "gemini_summarizer")),
		models: models,
		model:  model,
	}
}

// Summarize implements generation.Summarizer.
func (s *GeminiSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	if s.models == nil {
		return "", fmt.Errorf("%w: gemini API key is empty", generation.ErrNotConfigured)
	}

	start := time.Now()
	s.logger.InfoContext(ctx, "Making Gemini API call",
		"model", s.model,
		"prompt_length", len(prompt))

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := s.models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Gemini API call failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: %w", generation.ErrModelUnavailable, err)
	}

	text, err := extractText(resp)
	if err != nil {
		s.logger.WarnContext(ctx, "Gemini response unusable",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return "", err
	}

	s.logger.InfoContext(ctx, "Gemini API call successful",
		"summary_length", len(text),
		"duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

// extractText returns the concatenated text of the first candidate,
// skipping thought parts.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrEmptyModelOutput)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrModelUnavailable, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyModelOutput)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrModelUnavailable)
	}

	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrEmptyModelOutput)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text", generation.ErrEmptyModelOutput)
	}
	return text, nil
}
