package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"chat-server/internal/llm"
	"chat-server/internal/observability"
	"chat-server/internal/store"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ConversationStore defines the store operations required by ConversationProcessor
type ConversationStore interface {
	CreateConversation(ctx context.Context, params store.CreateConversationParams) (store.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (store.Conversation, error)
	ListConversations(ctx context.Context) ([]store.Conversation, error)
	UpdateConversation(ctx context.Context, id uuid.UUID, params store.UpdateConversationParams) (store.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) (bool, error)
	CreateMessage(ctx context.Context, params store.CreateMessageParams) (store.Message, error)
	ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]store.Message, error)
}

// ResponseGenerator produces assistant replies and conversation titles
type ResponseGenerator interface {
	GenerateReply(ctx context.Context, history []llm.ChatMessage) (string, error)
	GenerateTitle(ctx context.Context, firstMessage string) string
}

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrContentRequired      = errors.New("content is required")
)

type ConversationProcessor struct {
	store     ConversationStore
	generator ResponseGenerator
	logger    *observability.Logger

	// Serialises SendMessage per conversation so history reads and the first-message retitle cannot interleave
	conversationLocks sync.Map // map[uuid.UUID]*sync.Mutex
}

func New(store ConversationStore, generator ResponseGenerator, logger *observability.Logger) *ConversationProcessor {
	return &ConversationProcessor{
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

type SendMessageResult struct {
	UserMessage      store.Message `json:"userMessage"`
	AssistantMessage store.Message `json:"assistantMessage"`
}

// SendMessage stores the user's message, asks the generator for a reply and stores it.
// The first message of a conversation also renames it. If the generator fails the
// user message stays stored and the conversation is left untouched.
func (p *ConversationProcessor) SendMessage(ctx context.Context, conversationID uuid.UUID, content string) (SendMessageResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversationID.String()})

	if content == "" {
		return SendMessageResult{}, ErrContentRequired
	}

	// checked before taking the lock so unknown ids never get a lock entry
	if _, err := p.GetConversation(ctx, conversationID); err != nil {
		return SendMessageResult{}, err
	}

	lock := p.getConversationLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	// a delete may have run while we waited for the lock
	if _, err := p.GetConversation(ctx, conversationID); err != nil {
		p.conversationLocks.CompareAndDelete(conversationID, lock)
		return SendMessageResult{}, err
	}

	userMessage, err := p.store.CreateMessage(ctx, store.CreateMessageParams{
		ConversationID: conversationID,
		Role:           store.MessageRoleUser,
		Content:        content,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create user message", err)
		return SendMessageResult{}, fmt.Errorf("failed to create user message: %w", err)
	}

	history, err := p.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		p.logger.Error(ctx, "failed to list messages", err)
		return SendMessageResult{}, fmt.Errorf("failed to list messages: %w", err)
	}

	reply, err := p.generator.GenerateReply(ctx, toChatMessages(history))
	if err != nil {
		p.logger.Error(ctx, "failed to generate reply", err)
		return SendMessageResult{}, fmt.Errorf("failed to generate reply: %w", err)
	}

	assistantMessage, err := p.store.CreateMessage(ctx, store.CreateMessageParams{
		ConversationID: conversationID,
		Role:           store.MessageRoleAssistant,
		Content:        reply,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create assistant message", err)
		return SendMessageResult{}, fmt.Errorf("failed to create assistant message: %w", err)
	}

	// history was read before the reply was stored, so a single entry means this was the first message
	if len(history) == 1 {
		title := p.generator.GenerateTitle(ctx, history[0].Content)
		if _, err := p.store.UpdateConversation(ctx, conversationID, store.UpdateConversationParams{Title: &title}); err != nil {
			p.logger.Error(ctx, "failed to update conversation title", err)
			return SendMessageResult{}, fmt.Errorf("failed to update conversation title: %w", err)
		}
		p.logger.Info(observability.WithFields(ctx, observability.Field{Key: "title", Value: title}), "conversation retitled")
	}

	if _, err := p.store.UpdateConversation(ctx, conversationID, store.UpdateConversationParams{}); err != nil {
		p.logger.Error(ctx, "failed to touch conversation", err)
		return SendMessageResult{}, fmt.Errorf("failed to touch conversation: %w", err)
	}

	p.logger.Info(ctx, "message exchanged")
	return SendMessageResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	}, nil
}

// CreateConversation starts an empty conversation. A nil or empty title becomes llm.DefaultTitle;
// any other title is stored as given.
func (p *ConversationProcessor) CreateConversation(ctx context.Context, title *string) (store.Conversation, error) {
	params := store.CreateConversationParams{Title: llm.DefaultTitle}
	if title != nil && *title != "" {
		params.Title = *title
	}

	conversation, err := p.store.CreateConversation(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to create conversation", err)
		return store.Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversation.ID.String()})
	p.logger.Info(ctx, "conversation created")
	return conversation, nil
}

func (p *ConversationProcessor) GetConversation(ctx context.Context, id uuid.UUID) (store.Conversation, error) {
	conversation, err := p.store.GetConversation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Conversation{}, ErrConversationNotFound
		}
		p.logger.Error(ctx, "failed to get conversation", err)
		return store.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

// ListConversations returns all conversations, most recently updated first
func (p *ConversationProcessor) ListConversations(ctx context.Context) ([]store.Conversation, error) {
	conversations, err := p.store.ListConversations(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to list conversations", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// DeleteConversation removes a conversation and its messages
func (p *ConversationProcessor) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: id.String()})

	// waits for an in-flight SendMessage so its reply cannot outlive the conversation
	lock := p.getConversationLock(id)
	lock.Lock()
	defer lock.Unlock()

	deleted, err := p.store.DeleteConversation(ctx, id)
	if err != nil {
		p.logger.Error(ctx, "failed to delete conversation", err)
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	p.conversationLocks.CompareAndDelete(id, lock)
	if !deleted {
		return ErrConversationNotFound
	}

	p.logger.Info(ctx, "conversation deleted")
	return nil
}

// ListMessages returns the conversation's messages oldest first. Unknown conversations have no messages.
func (p *ConversationProcessor) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]store.Message, error) {
	messages, err := p.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		p.logger.Error(ctx, "failed to list messages", err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// getConversationLock gets or creates a mutex for the given conversation
func (p *ConversationProcessor) getConversationLock(conversationID uuid.UUID) *sync.Mutex {
	actual, _ := p.conversationLocks.LoadOrStore(conversationID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func toChatMessages(messages []store.Message) []llm.ChatMessage {
	return lo.Map(messages, func(m store.Message, _ int) llm.ChatMessage {
		return llm.ChatMessage{
			Role:    llm.Role(m.Role),
			Content: m.Content,
		}
	})
}
