package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment,
// e.g. server.port is read from TODO_SUMMARY_SERVER_PORT.
const EnvPrefix = "TODO_SUMMARY"

// legacyEnv maps configuration keys to the unprefixed variable names used by
// earlier deployments. The prefixed name always wins when both are set.
var legacyEnv = map[string]string{
	"server.port":        "PORT",
	"database.url":       "DATABASE_URL",
	"llm.gemini_api_key": "GEMINI_API_KEY",
	"llm.openai_api_key": "OPENAI_API_KEY",
	"slack.webhook_url":  "SLACK_WEBHOOK_URL",
}

// setDefaults registers every known key with its default value.
// Viper only unmarshals environment values for keys it knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.summarize_rate_per_minute", 6)
	v.SetDefault("server.summarize_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_base_url", "")
	v.SetDefault("llm.model_name", "gemini-1.5-flash")
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("slack.webhook_url", "")

	v.SetDefault("schedule.cron", "")
	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.run_timeout_seconds", 120)
}

// Load configuration from defaults, an optional config file, a .env file and
// environment variables, in increasing order of precedence.
// If configFile is empty, config.yaml in the working directory is used when present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", legacy, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
