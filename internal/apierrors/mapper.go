package apierrors

import (
	"chat-server/internal/conversations/processor"
	"chat-server/internal/llm"
	"chat-server/internal/store"
	"errors"
)

// MapError converts domain/processor errors to APIErrors.
//
// If the error is already an APIError, it returns it as-is.
// Generator failures keep their user-facing message and become 500s.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return Upstream(codeForKind(llmErr.Kind), llmErr.Message, err)
	}

	switch {
	case errors.Is(err, processor.ErrConversationNotFound):
		return NotFound(CodeConversationNotFound, "Conversation not found")

	case errors.Is(err, processor.ErrContentRequired):
		return BadRequest(CodeContentRequired, "Content is required")

	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	default:
		return InternalError(err)
	}
}

func codeForKind(kind llm.ErrorKind) string {
	switch kind {
	case llm.KindQuotaExceeded:
		return CodeAIQuotaExceeded
	case llm.KindInvalidCredentials:
		return CodeAIInvalidCredentials
	case llm.KindInvalidRequest:
		return CodeAIInvalidRequest
	case llm.KindRateLimited:
		return CodeAIRateLimited
	default:
		return CodeAIServiceError
	}
}
