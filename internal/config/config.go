package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// SummarizeRatePerMinute bounds how often the summarize endpoint may run.
	// Zero disables the limit.
	SummarizeRatePerMinute  int `mapstructure:"summarize_rate_per_minute" validate:"gte=0"`
	SummarizeTimeoutSeconds int `mapstructure:"summarize_timeout_seconds" validate:"gt=0"`
	ShutdownTimeoutSeconds  int `mapstructure:"shutdown_timeout_seconds"  validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a PostgreSQL connection string or a SQLite DSN, depending on Driver.
	URL string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains all LLM integration related settings.
// Missing API keys are allowed; the summarizer reports them at call time.
type LLMConfig struct {
	Provider           string `mapstructure:"provider"             validate:"required,oneof=gemini openai"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	OpenAIBaseURL      string `mapstructure:"openai_base_url"      validate:"omitempty,url"`
	ModelName          string `mapstructure:"model_name"           validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`
}

// SlackConfig contains the incoming webhook used for summary delivery.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url" validate:"omitempty,url"`
}

// ScheduleConfig controls the optional periodic summary trigger.
// An empty Cron expression disables it.
type ScheduleConfig struct {
	Cron              string `mapstructure:"cron"`
	Timezone          string `mapstructure:"timezone"            validate:"required"`
	RunTimeoutSeconds int    `mapstructure:"run_timeout_seconds" validate:"gt=0"`
}
