package events

import (
	"context"
	"log/slog"
)

// LogHandler writes one structured log record per event.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler. If logger is nil, slog.Default() is used.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger.With("component", "summary_events")}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *SummaryEvent) error {
	level := slog.LevelInfo
	if !event.Succeeded() {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("outcome", string(event.Outcome)),
		slog.String("trigger", string(event.Trigger)),
		slog.Int("pending_count", event.PendingCount),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	h.logger.LogAttrs(ctx, level, "summary run finished", attrs...)
	return nil
}
