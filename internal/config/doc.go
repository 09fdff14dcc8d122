// Package config loads, parses and validates application settings.
//
// Values come from defaults, an optional YAML file, a .env file and
// TODO_SUMMARY_ prefixed environment variables. The unprefixed names PORT,
// DATABASE_URL, GEMINI_API_KEY, OPENAI_API_KEY and SLACK_WEBHOOK_URL are
// honored as fallbacks. Missing model or webhook credentials never fail
// loading; the clients that need them report NotConfigured when called.
package config
