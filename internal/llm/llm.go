package llm

import (
	"context"
	"strings"
)

const (
	// FallbackReply is returned when the provider call succeeds but yields no usable text.
	FallbackReply = "I apologize, but I couldn't generate a response. Please try again."
	// DefaultTitle is the title of a new conversation and the result of any failed title generation.
	DefaultTitle = "New Conversation"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type ChatMessage struct {
	Role    Role
	Content string
}

// Generator produces assistant replies and conversation titles.
// GenerateReply errors are always *Error. GenerateTitle never fails.
type Generator interface {
	Name() string
	GenerateReply(ctx context.Context, history []ChatMessage) (string, error)
	GenerateTitle(ctx context.Context, firstMessage string) string
}

// ReplyOrFallback returns FallbackReply for empty or whitespace-only provider output.
func ReplyOrFallback(text string) string {
	if strings.TrimSpace(text) == "" {
		return FallbackReply
	}
	return text
}

// CleanTitle normalises a model-produced title: first line only, surrounding quotes
// and whitespace removed. Empty results become DefaultTitle.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if i := strings.IndexAny(title, "\r\n"); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimPrefix(title, "Title:")
	title = strings.Trim(strings.TrimSpace(title), "\"'`*")
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return DefaultTitle
	}
	return title
}
