package store

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password"`
}

type CreateUserParams struct {
	Username string
	Password string
}

type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateConversationParams struct {
	Title string
}

// UpdateConversationParams holds the fields to merge into a conversation. Nil fields are left untouched.
// UpdatedAt is accepted for symmetry with the record but is always replaced by the store's clock.
type UpdateConversationParams struct {
	Title     *string
	UpdatedAt *time.Time
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversationId"`
	Content        string      `json:"content"`
	Role           MessageRole `json:"role"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type CreateMessageParams struct {
	ConversationID uuid.UUID
	Role           MessageRole
	Content        string
}

type conversationRecord struct {
	Conversation
	// touched is the sequence number of the last create/update, used to break UpdatedAt ties
	touched uint64
}

type messageRecord struct {
	Message
	seq uint64
}
