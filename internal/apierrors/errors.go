package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes returned in the "code" field
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeNotFound             = "NOT_FOUND"
	CodeConversationNotFound = "CONVERSATION_NOT_FOUND"
	CodeContentRequired      = "CONTENT_REQUIRED"
	CodeAIQuotaExceeded      = "AI_QUOTA_EXCEEDED"
	CodeAIInvalidCredentials = "AI_INVALID_CREDENTIALS"
	CodeAIInvalidRequest     = "AI_INVALID_REQUEST"
	CodeAIRateLimited        = "AI_RATE_LIMITED"
	CodeAIServiceError       = "AI_SERVICE_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
)

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is an error with everything needed to render an HTTP response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []FieldError
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// Upstream is a 500 whose message is already safe to show to clients
func Upstream(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Code: code, Message: message, Err: err}
}

// InternalError is a sanitized 500 that never exposes internal details
func InternalError(err error) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Code: CodeInternalError, Message: "Internal server error", Err: err}
}

// InvalidInput is a 400 carrying per-field details
func InvalidInput(fields []FieldError, err error) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: CodeInvalidInput, Message: "Invalid input", Fields: fields, Err: err}
}
