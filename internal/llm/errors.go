package llm

import "errors"

// Generation error taxonomy. Credential failures are distinct sentinels so
// the HTTP layer can surface a configuration hint instead of a retry prompt.
var (
	// ErrMissingAPIKey means no API key is configured for the generation
	// service. Detected locally, no request is made.
	ErrMissingAPIKey = errors.New("generation service API key is not configured")
	// ErrInvalidAPIKey means the generation service rejected the key.
	ErrInvalidAPIKey = errors.New("generation service rejected the API key")
	// ErrEmptyOutput means the service replied but its structured output
	// was empty or could not be parsed into questions.
	ErrEmptyOutput = errors.New("generation service returned empty or malformed output")
)
