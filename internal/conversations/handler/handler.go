package handler

import (
	"chat-server/internal/apierrors"
	"chat-server/internal/conversations/processor"
	"chat-server/internal/observability"
	"chat-server/internal/store"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConversationProcessor is the subset of processor.ConversationProcessor the handlers need
type ConversationProcessor interface {
	SendMessage(ctx context.Context, conversationID uuid.UUID, content string) (processor.SendMessageResult, error)
	CreateConversation(ctx context.Context, title *string) (store.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (store.Conversation, error)
	ListConversations(ctx context.Context) ([]store.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]store.Message, error)
}

type Handler struct {
	processor ConversationProcessor
	logger    *observability.Logger
}

func New(processor ConversationProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type CreateConversationRequest struct {
	Title *string `json:"title" binding:"omitempty,max=200"`
}

type SendMessageRequest struct {
	Content *string `json:"content" binding:"required"`
}

// HandleListConversations handles GET /api/conversations
func (h *Handler) HandleListConversations(c *gin.Context) {
	conversations, err := h.processor.ListConversations(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// HandleGetConversation handles GET /api/conversations/:id
func (h *Handler) HandleGetConversation(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		apierrors.RespondWithError(c, processor.ErrConversationNotFound)
		return
	}

	conversation, err := h.processor.GetConversation(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversation)
}

// HandleCreateConversation handles POST /api/conversations
func (h *Handler) HandleCreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	// an empty body is a conversation with the default title
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	conversation, err := h.processor.CreateConversation(c.Request.Context(), req.Title)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

// HandleDeleteConversation handles DELETE /api/conversations/:id
func (h *Handler) HandleDeleteConversation(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		apierrors.RespondWithError(c, processor.ErrConversationNotFound)
		return
	}

	if err := h.processor.DeleteConversation(c.Request.Context(), id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleListMessages handles GET /api/conversations/:id/messages
func (h *Handler) HandleListMessages(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		c.JSON(http.StatusOK, []store.Message{})
		return
	}

	messages, err := h.processor.ListMessages(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// HandleSendMessage handles POST /api/conversations/:id/messages
func (h *Handler) HandleSendMessage(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		apierrors.RespondWithError(c, processor.ErrConversationNotFound)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	result, err := h.processor.SendMessage(c.Request.Context(), id, *req.Content)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// conversationID parses the :id path parameter. Malformed ids cannot name a conversation.
func conversationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
