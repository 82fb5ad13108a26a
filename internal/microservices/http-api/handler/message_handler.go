package handler

import (
	"net/http"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/messages")
	{
		messages.GET("", h.Inbox)
		messages.POST("", h.Send)
		messages.GET("/unread", h.Unread)
		messages.GET("/with/:user_id", h.Conversation)
		messages.POST("/:message_id/read", h.MarkRead)
	}
}

// GET /api/messages
func (h *MessageHandler) Inbox(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	messages, err := h.messageService.Inbox(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

// POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GET /api/messages/unread
func (h *MessageHandler) Unread(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	count, err := h.messageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

// GET /api/messages/with/:user_id
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	messages, err := h.messageService.Conversation(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

// POST /api/messages/:message_id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	if err := h.messageService.MarkRead(c.Request.Context(), userID, messageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
