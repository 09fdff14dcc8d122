package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/phrazzld/todo-summary-api/internal/generation"
	"github.com/phrazzld/todo-summary-api/internal/notify"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/phrazzld/todo-summary-api/internal/redact"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

// Fixed result messages.
const (
	NoPendingMessage = "No pending tasks to summarize."
	DeliveredMessage = "Summary sent to Slack successfully!"
)

// Payload formatting.
const (
	SummaryHeading  = "**Daily Todo Summary:**\n\n"
	TimestampLayout = "Jan 2, 2006 at 3:04 PM MST"
)

// SummaryResult is the outcome of a successful run.
type SummaryResult struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

// SummaryService runs the summarize-and-notify pipeline. It keeps no state
// between runs and is safe for concurrent use.
type SummaryService struct {
	store      store.PendingLister
	summarizer generation.Summarizer
	notifier   notify.Notifier
	emitter    events.EventEmitter
	prompt     *PromptTemplate
	clock      func() time.Time
	location   *time.Location
	logger     *slog.Logger
}

// SummaryOption configures optional SummaryService collaborators.
type SummaryOption func(*SummaryService)

// WithClock overrides the clock used for the payload timestamp.
func WithClock(clock func() time.Time) SummaryOption {
	return func(s *SummaryService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocation sets the timezone the payload timestamp is rendered in.
func WithLocation(loc *time.Location) SummaryOption {
	return func(s *SummaryService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithPromptTemplate replaces the default prompt.
func WithPromptTemplate(p *PromptTemplate) SummaryOption {
	return func(s *SummaryService) {
		if p != nil {
			s.prompt = p
		}
	}
}

// WithEventEmitter publishes one SummaryEvent per run to emitter.
func WithEventEmitter(emitter events.EventEmitter) SummaryOption {
	return func(s *SummaryService) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// NewSummaryService creates a SummaryService.
// It returns an error if any of the required dependencies are nil.
func NewSummaryService(
	pending store.PendingLister,
	summarizer generation.Summarizer,
	notifier notify.Notifier,
	logger *slog.Logger,
	opts ...SummaryOption,
) (*SummaryService, error) {
	if pending == nil {
		return nil, errors.New("pending lister cannot be nil")
	}
	if summarizer == nil {
		return nil, errors.New("summarizer cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	prompt, err := NewPromptTemplate(DefaultPromptTemplate)
	if err != nil {
		return nil, err
	}

	s := &SummaryService{
		store:      pending,
		summarizer: summarizer,
		notifier:   notifier,
		emitter:    events.NopEmitter{},
		prompt:     prompt,
		clock:      time.Now,
		location:   time.UTC,
		logger:     logger.With(slog.String("component", "summary_service")),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// BuildPayload formats summary for delivery. The context line is stamped
// with at, rendered in loc.
func BuildPayload(summary string, at time.Time, loc *time.Location) notify.Payload {
	if loc == nil {
		loc = time.UTC
	}
	text := SummaryHeading + summary
	stamp := at.In(loc).Format(TimestampLayout)

	return notify.Payload{
		Text: text,
		Blocks: []notify.Block{
			{Kind: notify.BlockSection, Text: text},
			{Kind: notify.BlockContext, Text: fmt.Sprintf("_Generated by Todo Summary Assistant on %s_", stamp)},
		},
		GeneratedAt: at,
	}
}

// RunSummarization reads pending todos, asks the model for a summary and
// posts it to the notifier. Steps run strictly in order and a failure stops
// the run; the returned error is always a *SummaryError.
//
// With nothing pending the run succeeds without contacting the model or the
// notifier. Todos are never modified.
func (s *SummaryService) RunSummarization(ctx context.Context) (*SummaryResult, error) {
	start := time.Now()
	log := logger.FromContextOrDefault(ctx, s.logger)

	todos, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, s.fail(ctx, start, 0, &SummaryError{
			Kind:    KindStoreReadFailed,
			Message: "Failed to fetch pending todos",
			Err:     err,
		})
	}

	if len(todos) == 0 {
		log.Info("no pending todos, skipping summary")
		s.emit(ctx, events.NewSummaryEvent(events.OutcomeSkipped, events.TriggerFromContext(ctx), 0, time.Since(start), nil))
		return &SummaryResult{Message: NoPendingMessage, Summary: NoPendingMessage}, nil
	}

	summary, sErr := s.summarize(ctx, todos)
	if sErr != nil {
		return nil, s.fail(ctx, start, len(todos), sErr)
	}

	payload := BuildPayload(summary, s.clock(), s.location)
	if err := s.notifier.Deliver(ctx, payload); err != nil {
		return nil, s.fail(ctx, start, len(todos), &SummaryError{
			Kind:    KindNotificationFailed,
			Message: notificationMessage(err),
			Summary: summary,
			Err:     err,
		})
	}

	log.Info("summary delivered",
		slog.Int("pending_count", len(todos)),
		slog.Int("summary_length", len(summary)),
		slog.Duration("duration", time.Since(start)))
	s.emit(ctx, events.NewSummaryEvent(events.OutcomeDelivered, events.TriggerFromContext(ctx), len(todos), time.Since(start), nil))

	return &SummaryResult{Message: DeliveredMessage, Summary: summary}, nil
}

func (s *SummaryService) summarize(ctx context.Context, todos []*domain.Todo) (string, *SummaryError) {
	prompt, err := s.prompt.Render(todos)
	if err != nil {
		return "", &SummaryError{
			Kind:    KindSummarizationFailed,
			Message: "Failed to build the summary prompt",
			Err:     err,
		}
	}

	summary, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		return "", &SummaryError{
			Kind:    KindSummarizationFailed,
			Message: summarizationMessage(err),
			Err:     err,
		}
	}

	if strings.TrimSpace(summary) == "" {
		return "", &SummaryError{
			Kind:    KindSummarizationFailed,
			Message: summarizationMessage(generation.ErrEmptyModelOutput),
			Err:     generation.ErrEmptyModelOutput,
		}
	}

	return summary, nil
}

func summarizationMessage(err error) string {
	switch {
	case errors.Is(err, generation.ErrNotConfigured):
		return "Language model is not configured"
	case errors.Is(err, generation.ErrEmptyModelOutput):
		return "Failed to get a summary from the LLM"
	default:
		return "Language model is unavailable"
	}
}

func notificationMessage(err error) string {
	var rejected *notify.RejectedError
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		return "Slack webhook URL is not configured"
	case errors.As(err, &rejected):
		msg := fmt.Sprintf("Failed to send message to Slack: %d", rejected.StatusCode)
		if rejected.Body != "" {
			msg += " - " + rejected.Body
		}
		return msg
	default:
		return "Slack webhook is unreachable"
	}
}

// fail logs a failed run and emits its event. It returns sErr for convenience.
func (s *SummaryService) fail(ctx context.Context, start time.Time, pending int, sErr *SummaryError) *SummaryError {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Error("summary run failed",
		slog.String("kind", string(sErr.Kind)),
		slog.String("error", redact.Error(sErr.Err)),
		slog.Int("pending_count", pending),
		slog.Bool("has_summary", sErr.Summary != ""))

	event := events.NewSummaryEvent(outcomeFor(sErr.Kind), events.TriggerFromContext(ctx), pending, time.Since(start), sErr)
	event.Error = redact.Error(sErr)
	s.emit(ctx, event)
	return sErr
}

func outcomeFor(kind SummaryErrorKind) events.Outcome {
	switch kind {
	case KindStoreReadFailed:
		return events.OutcomeStoreReadFailed
	case KindSummarizationFailed:
		return events.OutcomeSummarizationFailed
	default:
		return events.OutcomeNotificationFailed
	}
}

// emit publishes event. Handler failures never change the run result.
func (s *SummaryService) emit(ctx context.Context, event *events.SummaryEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit summary event",
			slog.String("error", err.Error()),
			slog.String("outcome", string(event.Outcome)))
	}
}
