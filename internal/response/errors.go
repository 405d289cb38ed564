package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Access gate ───────────────────────────────────────────────────
	ErrInvalidAccessCode ErrCode = "INVALID_ACCESS_CODE"
	ErrSessionExpired    ErrCode = "SESSION_EXPIRED"
	ErrTokenRequired     ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid      ErrCode = "TOKEN_INVALID"
	ErrClientIDRequired  ErrCode = "CLIENT_ID_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz generation ───────────────────────────────────────────────
	ErrSourceTooShort   ErrCode = "SOURCE_TEXT_TOO_SHORT"
	ErrGenerationBusy   ErrCode = "GENERATION_IN_PROGRESS"
	ErrMissingAPIKey    ErrCode = "MISSING_API_KEY"
	ErrInvalidAPIKey    ErrCode = "INVALID_API_KEY"
	ErrEmptyGeneration  ErrCode = "EMPTY_GENERATION_OUTPUT"
	ErrGenerationFailed ErrCode = "GENERATION_FAILED"

	// ─── Quiz session ──────────────────────────────────────────────────
	ErrQuizNotLoaded  ErrCode = "QUIZ_NOT_LOADED"
	ErrQuizIncomplete ErrCode = "QUIZ_INCOMPLETE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Access gate ───────────────────────────────────────────────────
	case ErrInvalidAccessCode:
		return "That access code is not recognized."
	case ErrSessionExpired:
		return "Your session has expired. Please enter your access code again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrClientIDRequired:
		return "An X-Client-ID header is required."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Quiz generation ───────────────────────────────────────────────
	case ErrSourceTooShort:
		return "Please provide at least 50 characters of study material."
	case ErrGenerationBusy:
		return "A quiz is already being generated. Please wait for it to finish."
	case ErrMissingAPIKey:
		return "The AI service is not configured. An API key must be set on the server."
	case ErrInvalidAPIKey:
		return "The AI service rejected the configured API key. Please check the server configuration."
	case ErrEmptyGeneration:
		return "The AI service returned no usable questions. Please try again."
	case ErrGenerationFailed:
		return "Quiz generation failed. Please try again."

	// ─── Quiz session ──────────────────────────────────────────────────
	case ErrQuizNotLoaded:
		return "No quiz has been generated yet."
	case ErrQuizIncomplete:
		return "Please answer every question before submitting."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
