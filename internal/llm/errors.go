package llm

import "fmt"

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindQuotaExceeded
	KindInvalidCredentials
	KindInvalidRequest
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidRequest:
		return "invalid_request"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure. Message is safe to show to end users;
// the provider's own payload stays in Err.
type Error struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Err      error
}

func NewError(provider string, kind ErrorKind, err error) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  messageFor(provider, kind),
		Err:      err,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func messageFor(provider string, kind ErrorKind) string {
	name := "AI"
	switch provider {
	case ProviderOpenAI:
		name = "OpenAI"
	case ProviderGemini:
		name = "Gemini"
	}

	switch kind {
	case KindQuotaExceeded:
		return fmt.Sprintf("%s API quota exceeded. Please check your billing settings.", name)
	case KindInvalidCredentials:
		return fmt.Sprintf("Invalid %s API key. Please check your configuration.", name)
	case KindInvalidRequest:
		return "Invalid request. Please try rephrasing your message."
	case KindRateLimited:
		if provider == ProviderGemini {
			return "Rate limit exceeded. Please wait a moment and try again."
		}
		return "Rate limit exceeded. Please try again in a moment."
	default:
		return fmt.Sprintf("Failed to generate response from %s. Please try again.", name)
	}
}
