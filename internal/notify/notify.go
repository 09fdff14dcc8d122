// Package notify defines the boundary between the application core and chat
// delivery channels. A Notifier posts a formatted Payload to one destination.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Common errors returned by Notifier implementations.
var (
	// ErrNotConfigured is returned when no destination is configured.
	// It is reported before any network work.
	ErrNotConfigured = errors.New("notification channel not configured")

	// ErrWebhookUnreachable is returned when the request could not be sent or
	// no response was received.
	ErrWebhookUnreachable = errors.New("webhook unreachable")

	// ErrWebhookRejected is returned when the webhook answered with a non-2xx status.
	// The concrete error is a *RejectedError.
	ErrWebhookRejected = errors.New("webhook rejected the message")
)

// BlockKind identifies a rich layout section of a payload.
type BlockKind string

// Supported block kinds
const (
	BlockSection BlockKind = "section"
	BlockContext BlockKind = "context"
)

// Block is one rich layout section. Text is Markdown.
type Block struct {
	Kind BlockKind
	Text string
}

// Payload is a channel-agnostic message.
// Text is the plain display text (Markdown) shown where blocks are not rendered.
type Payload struct {
	Text        string
	Blocks      []Block
	GeneratedAt time.Time
}

// Notifier delivers a payload to a chat destination. One attempt per call, no retries.
type Notifier interface {
	Deliver(ctx context.Context, payload Payload) error
}

// RejectedError carries the webhook's response when it refused a message.
type RejectedError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrWebhookRejected) true for any RejectedError.
func (e *RejectedError) Is(target error) bool {
	return target == ErrWebhookRejected
}
