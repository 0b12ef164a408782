package api

import (
	conversationHandler "chat-server/internal/conversations/handler"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	router              *gin.RouterGroup
	conversationHandler conversationHandler.Handler
}

func New(router *gin.RouterGroup, conversationHandler conversationHandler.Handler) API {
	return API{
		router:              router,
		conversationHandler: conversationHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		conversationsGroup := apiGroup.Group("/conversations")
		conversationsGroup.GET("", a.conversationHandler.HandleListConversations)
		conversationsGroup.POST("", a.conversationHandler.HandleCreateConversation)
		conversationsGroup.GET("/:id", a.conversationHandler.HandleGetConversation)
		conversationsGroup.DELETE("/:id", a.conversationHandler.HandleDeleteConversation)
		conversationsGroup.GET("/:id/messages", a.conversationHandler.HandleListMessages)
		conversationsGroup.POST("/:id/messages", a.conversationHandler.HandleSendMessage)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
