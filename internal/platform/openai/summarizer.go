// Package openai provides a generation.Summarizer backed by any OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/generation"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when the configured model name is empty or names a Gemini model.
const DefaultModel = openai.GPT4oMini

// chatCompleter is the subset of *openai.Client used by the summarizer.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summarizer implements generation.Summarizer with a single chat completion per call.
type Summarizer struct {
	client chatCompleter
	model  string
	logger *slog.Logger
}

var _ generation.Summarizer = (*Summarizer)(nil)

// NewSummarizer creates a Summarizer from the LLM configuration.
// Without an API key the summarizer is returned unconfigured and every call
// fails with generation.ErrNotConfigured.
func NewSummarizer(logger *slog.Logger, cfg config.LLMConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}

	model := cfg.ModelName
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = DefaultModel
	}

	s := &Summarizer{
		model:  model,
		logger: logger.With(slog.String("component", "openai_summarizer")),
	}

	if cfg.OpenAIAPIKey == "" {
		return s
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	s.client = openai.NewClientWithConfig(clientConfig)

	return s
}

// Summarize implements generation.Summarizer.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: openai API key is empty", generation.ErrNotConfigured)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)

	if err != nil {
		s.logger.ErrorContext(ctx, "chat completion failed",
			"model", s.model,
			"error", err,
			"latency_ms", latency.Milliseconds())
		return "", fmt.Errorf("%w: %w", generation.ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrEmptyModelOutput)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: response blocked by content filter", generation.ErrModelUnavailable)
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text", generation.ErrEmptyModelOutput)
	}

	s.logger.InfoContext(ctx, "chat completion succeeded",
		"model", s.model,
		"summary_length", len(text),
		"total_tokens", resp.Usage.TotalTokens,
		"latency_ms", latency.Milliseconds())
	return text, nil
}
