package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/phrazzld/todo-summary-api/internal/generation"
	"github.com/phrazzld/todo-summary-api/internal/metrics"
	"github.com/phrazzld/todo-summary-api/internal/notify"
	"github.com/phrazzld/todo-summary-api/internal/platform/gemini"
	"github.com/phrazzld/todo-summary-api/internal/platform/openai"
	"github.com/phrazzld/todo-summary-api/internal/platform/slack"
	"github.com/phrazzld/todo-summary-api/internal/schedule"
	"github.com/phrazzld/todo-summary-api/internal/service"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

// webhookTimeout bounds a single Slack delivery attempt.
const webhookTimeout = 10 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	todoStore store.TodoStore

	summarizer generation.Summarizer
	notifier   notify.Notifier

	todoService    service.TodoService
	summaryService *service.SummaryService

	eventEmitter *events.InMemoryEventEmitter
	metrics      *metrics.Exporter
	scheduler    *schedule.Scheduler
}

// appOption overrides a dependency before the services are built.
type appOption func(*application)

// withSummarizer replaces the configured language model client.
func withSummarizer(s generation.Summarizer) appOption {
	return func(app *application) { app.summarizer = s }
}

// withNotifier replaces the configured Slack client.
func withNotifier(n notify.Notifier) appOption {
	return func(app *application) { app.notifier = n }
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	opts ...appOption,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}
	for _, opt := range opts {
		opt(app)
	}

	app.todoStore = newTodoStore(cfg.Database.Driver, db, logger)

	if app.summarizer == nil {
		summarizer, err := newSummarizer(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
		app.summarizer = summarizer
	}
	logger.Info("summarizer initialized",
		slog.String("provider", cfg.LLM.Provider),
		slog.String("model", cfg.LLM.ModelName))

	if app.notifier == nil {
		app.notifier = slack.NewNotifier(cfg.Slack, &http.Client{Timeout: webhookTimeout}, logger)
	}

	// Summary outcomes feed both the log and the Prometheus counters.
	app.metrics = metrics.NewExporter()
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger), app.metrics)

	prompt, err := service.LoadPromptTemplate(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	location, err := schedule.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, err
	}

	app.summaryService, err = service.NewSummaryService(
		app.todoStore,
		app.summarizer,
		app.notifier,
		logger,
		service.WithPromptTemplate(prompt),
		service.WithLocation(location),
		service.WithEventEmitter(app.eventEmitter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary service: %w", err)
	}

	app.todoService, err = service.NewTodoService(app.todoStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo service: %w", err)
	}

	app.scheduler, err = schedule.New(cfg.Schedule, app.scheduledSummary, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newSummarizer returns the language model client for the configured provider.
func newSummarizer(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Summarizer, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewSummarizer(logger, cfg), nil
	default:
		s, err := gemini.NewGeminiSummarizer(ctx, logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini summarizer: %w", err)
		}
		return s, nil
	}
}

// scheduledSummary is the scheduler job. The outcome is already logged and
// counted by the event handlers, so only the error is passed back.
func (app *application) scheduledSummary(ctx context.Context) error {
	_, err := app.summaryService.RunSummarization(ctx)
	return err
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
