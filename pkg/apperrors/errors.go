package apperrors

import "fmt"

// AppError represents an application-level error with a code and optional cause
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error codes
const (
	ErrCodeAuthRequired      = "AUTH_REQUIRED"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeUpstreamHTTP      = "UPSTREAM_HTTP_ERROR"
	ErrCodeOperationNotFound = "OPERATION_NOT_FOUND"
	ErrCodeUndoUnavailable   = "UNDO_UNAVAILABLE"
	ErrCodeAgentConfig       = "AGENT_CONFIG_INVALID"
	ErrCodeLLMCall           = "LLM_CALL_FAILED"
)

// UpstreamHTTPError carries the status and body of a non-2xx response from the
// accounting API. It survives until the dispatcher renders it into text, so the
// user sees both the status code and the upstream body verbatim.
type UpstreamHTTPError struct {
	Status int
	Body   string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}
