// Package slack delivers notify.Payload messages to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/notify"
	"github.com/slack-go/slack"
)

const (
	// maxSectionText is Slack's limit for the text of a section block.
	maxSectionText = 3000

	// maxErrorBody bounds how much of a rejection response is kept.
	maxErrorBody = 2 << 10
)

// Notifier implements notify.Notifier for Slack incoming webhooks.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

var _ notify.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier for the configured webhook.
// An empty webhook URL yields a notifier that reports notify.ErrNotConfigured.
// If client is nil, a client without a timeout is used; callers bound
// delivery time through the context.
func NewNotifier(cfg config.SlackConfig, client *http.Client, logger *slog.Logger) *Notifier {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		client:     client,
		logger:     logger.With(slog.String("component", "slack_notifier")),
	}
}

// BuildMessage converts a payload into a Slack webhook message.
// Markdown text is converted to mrkdwn.
func BuildMessage(payload notify.Payload) *slack.WebhookMessage {
	msg := &slack.WebhookMessage{Text: ToMrkdwn(payload.Text)}

	blocks := make([]slack.Block, 0, len(payload.Blocks))
	for _, b := range payload.Blocks {
		textObj := slack.NewTextBlockObject(slack.MarkdownType, truncate(ToMrkdwn(b.Text), maxSectionText), false, false)
		switch b.Kind {
		case notify.BlockContext:
			blocks = append(blocks, slack.NewContextBlock("", textObj))
		default:
			blocks = append(blocks, slack.NewSectionBlock(textObj, nil, nil))
		}
	}
	if len(blocks) > 0 {
		msg.Blocks = &slack.Blocks{BlockSet: blocks}
	}

	return msg
}

// Deliver implements notify.Notifier. It performs a single POST.
func (n *Notifier) Deliver(ctx context.Context, payload notify.Payload) error {
	if n.webhookURL == "" {
		return fmt.Errorf("%w: slack webhook URL is empty", notify.ErrNotConfigured)
	}

	body, err := json.Marshal(BuildMessage(payload))
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		// A malformed URL can never be reached.
		return &unreachableError{err: err, webhookURL: n.webhookURL}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.ErrorContext(ctx, "slack webhook request failed",
			slog.String("error", redactURLError(err, n.webhookURL)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return &unreachableError{err: err, webhookURL: n.webhookURL}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.WarnContext(ctx, "slack webhook rejected message",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response", string(respBody)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return &notify.RejectedError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	n.logger.InfoContext(ctx, "slack message delivered",
		slog.Int("status_code", resp.StatusCode),
		slog.Int("blocks", len(payload.Blocks)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// truncate shortens s to at most limit runes, ending with an ellipsis when cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// unreachableError reports a failed webhook request. Its message hides the
// webhook URL while errors.Is and errors.As still reach the transport cause.
type unreachableError struct {
	err        error
	webhookURL string
}

func (e *unreachableError) Error() string {
	return notify.ErrWebhookUnreachable.Error() + ": " + redactURLError(e.err, e.webhookURL)
}

func (e *unreachableError) Unwrap() []error {
	return []error{notify.ErrWebhookUnreachable, e.err}
}

// redactURLError renders err without the webhook URL, which embeds the secret token.
func redactURLError(err error, webhookURL string) string {
	return strings.ReplaceAll(err.Error(), webhookURL, "[REDACTED_WEBHOOK]")
}
