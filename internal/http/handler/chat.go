package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aeropulse.app/pulse/internal/http/dto"
	"aeropulse.app/pulse/internal/service"
)

type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid chat request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.service.Chat(ctx, req.SessionID, req.Message)
	if err != nil {
		slog.ErrorContext(ctx, "chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "chat failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Success:   true,
		Response:  result.Response,
		Route:     result.Route,
		Timestamp: time.Now().UTC(),
	})
}

func (h *ChatHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	messages, err := h.service.History(ctx, sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load chat history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
