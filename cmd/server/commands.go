package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/phrazzld/todo-summary-api/internal/platform/migrate"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	port       int
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "todo-summary-api",
		Short:         "Todo API that summarizes pending todos and posts them to Slack",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a config file (default ./config.yaml when present)")
	flags.IntVar(&opts.port, "port", 0, "HTTP port, overrides server.port")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides server.log_level")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSummarizeCommand(opts),
	)
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the summary schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrate.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, log, args[0])
		},
	}
}

func newSummarizeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Summarize pending todos once, post the result to Slack and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			return runSummarizeOnce(cmd.Context(), cfg, log, cmd)
		},
	}
}

// load reads configuration, applies flag overrides and sets up logging.
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if o.port != 0 || o.logLevel != "" {
		if o.port != 0 {
			cfg.Server.Port = o.port
		}
		if o.logLevel != "" {
			cfg.Server.LogLevel = o.logLevel
		}
		if err := config.Validate(cfg); err != nil {
			return nil, nil, err
		}
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Bool("slack_configured", cfg.Slack.WebhookURL != ""),
		slog.Bool("schedule_enabled", cfg.Schedule.Cron != ""))

	return cfg, log, nil
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}

func runMigrate(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	dialect, fsys := migrationSource(cfg.Database.Driver)
	return migrate.Run(ctx, db, dialect, fsys, command, log)
}

// runSummarizeOnce runs the pipeline a single time and prints the result.
// A failed run returns an error so the process exits non-zero.
func runSummarizeOnce(ctx context.Context, cfg *config.Config, log *slog.Logger, cmd *cobra.Command) error {
	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	ctx, cancel := context.WithTimeout(
		events.WithTrigger(ctx, events.TriggerCLI),
		time.Duration(cfg.Schedule.RunTimeoutSeconds)*time.Second,
	)
	defer cancel()

	result, err := app.summaryService.RunSummarization(ctx)
	if err != nil {
		return fmt.Errorf("summary run failed: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", result.Message, result.Summary)
	return err
}
