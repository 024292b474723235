// Package redact provides utilities for scrubbing sensitive information from
// strings before they are logged or returned in error responses. It targets
// the secrets this application actually handles: database connection strings,
// the API key, JWT tokens, and webhook URLs.
package redact

import "regexp"

// Redaction placeholders
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	URLPlaceholder        = "[REDACTED_URL]"
)

// Precompiled regex patterns
var (
	// Database connection strings with embedded credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Key/secret assignments, e.g. "api_key=..." or "secret: ..."
	secretRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|jwt[_-]?secret|secret|token)(['"\s:=]+)[A-Za-z0-9_\-.~+/$]{8,}`,
	)

	// Standard three-part base64url-encoded JWT token format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Webhook and other URLs that may embed tokens in query strings
	urlQueryRegex = regexp.MustCompile(`https?://[^\s]+\?[^\s]+`)
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := dbConnRegex.ReplaceAllString(input, CredentialPlaceholder)
	result = jwtTokenRegex.ReplaceAllString(result, JWTPlaceholder)
	result = secretRegex.ReplaceAllString(result, "${1}${2}"+KeyPlaceholder)
	result = urlQueryRegex.ReplaceAllString(result, URLPlaceholder)

	return result
}

// Error redacts sensitive information from an error's Error() output.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
