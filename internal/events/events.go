package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a summary run ended.
type Outcome string

// Possible summary run outcomes
const (
	OutcomeDelivered           Outcome = "delivered"
	OutcomeSkipped             Outcome = "skipped"
	OutcomeStoreReadFailed     Outcome = "store_read_failed"
	OutcomeSummarizationFailed Outcome = "summarization_failed"
	OutcomeNotificationFailed  Outcome = "notification_failed"
)

// Outcomes lists every outcome, in pipeline order.
var Outcomes = []Outcome{
	OutcomeDelivered,
	OutcomeSkipped,
	OutcomeStoreReadFailed,
	OutcomeSummarizationFailed,
	OutcomeNotificationFailed,
}

// Trigger identifies what started a summary run.
type Trigger string

// Possible triggers
const (
	TriggerHTTP     Trigger = "http"
	TriggerSchedule Trigger = "schedule"
	TriggerCLI      Trigger = "cli"
)

type triggerKey struct{}

// WithTrigger records what started the run carried by ctx.
func WithTrigger(ctx context.Context, trigger Trigger) context.Context {
	return context.WithValue(ctx, triggerKey{}, trigger)
}

// TriggerFromContext returns the trigger stored in ctx, or TriggerHTTP when none is set.
func TriggerFromContext(ctx context.Context) Trigger {
	if t, ok := ctx.Value(triggerKey{}).(Trigger); ok && t != "" {
		return t
	}
	return TriggerHTTP
}

// SummaryEvent describes one completed summary run.
// Exactly one event is emitted per run.
type SummaryEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Outcome      Outcome       `json:"outcome"`
	Trigger      Trigger       `json:"trigger"`
	PendingCount int           `json:"pending_count"`
	Duration     time.Duration `json:"duration"`

	// Error is the failure message; empty on success
	Error string `json:"error,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewSummaryEvent creates a SummaryEvent with a fresh ID and timestamp.
func NewSummaryEvent(outcome Outcome, trigger Trigger, pendingCount int, duration time.Duration, err error) *SummaryEvent {
	event := &SummaryEvent{
		ID:           uuid.New(),
		Outcome:      outcome,
		Trigger:      trigger,
		PendingCount: pendingCount,
		Duration:     duration,
		CreatedAt:    time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	return event
}

// Succeeded reports whether the run ended without error.
func (e *SummaryEvent) Succeeded() bool {
	return e.Outcome == OutcomeDelivered || e.Outcome == OutcomeSkipped
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SummaryEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *SummaryEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *SummaryEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *SummaryEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *SummaryEvent) error { return nil }
