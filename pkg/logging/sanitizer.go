// Package logging provides helpers for keeping credentials out of log
// output. Embedding and LLM endpoints are configured with API keys, and
// transport errors frequently echo the request URL or auth header back.
package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches key=value style secrets in URLs and error strings:
	// api_key=xxx, apikey=xxx, key=xxx, token=xxx.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key|token)=[A-Za-z0-9-_]{8,}`)

	// Matches bearer tokens echoed from Authorization headers.
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)

	// Matches sk-... style provider keys (OpenAI, Anthropic).
	providerKeyPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9-_]{16,}\b`)

	// Matches user:pass@host credentials embedded in a URL.
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@[^/\s]+`)
)

// SanitizeEndpoint removes embedded credentials from an endpoint URL so it
// can be logged.
func SanitizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	sanitized := urlCredsPattern.ReplaceAllString(endpoint, "://"+RedactedText+"@"+RedactedText)
	return apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
}

// SanitizeError redacts credentials from an error message before logging.
// HTTP client errors can include the full request URL and auth header.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := err.Error()
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = providerKeyPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
