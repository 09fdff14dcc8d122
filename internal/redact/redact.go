// Package redact scrubs secrets from strings before they are logged or
// returned in error responses. Webhook URLs, model API keys and database
// credentials regularly show up inside transport and driver errors.
package redact

import "regexp"

// Placeholders substituted for redacted values.
const (
	RedactedWebhookPlaceholder    = "[REDACTED_WEBHOOK]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; more specific patterns come first so that a
// later, broader pattern never sees a partially redacted secret.
var rules = []rule{
	// Slack incoming webhook URLs are bearer credentials in their own right.
	{regexp.MustCompile(`https://hooks\.slack\.com/[A-Za-z0-9/_\-]+`), RedactedWebhookPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|file)://[^@\s]+@`), RedactedCredentialPlaceholder},
	// Google API keys, as used by Gemini.
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), RedactedKeyPlaceholder},
	// OpenAI style secret keys.
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:api[_-]?key|key|token|secret|password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s,;\[]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), RedactedStackPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
