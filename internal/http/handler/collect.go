package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropulse.app/pulse/internal/agent"
	"aeropulse.app/pulse/internal/http/dto"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/service"
)

type CollectHandler struct {
	service service.CollectService
}

func NewCollectHandler(service service.CollectService) *CollectHandler {
	return &CollectHandler{service: service}
}

func (h *CollectHandler) Collect(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid collect request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	platform := model.Platform(req.Source)
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown source"})
		return
	}

	result, err := h.service.Collect(ctx, service.CollectParams{
		Platform:    platform,
		Query:       req.Query,
		Credentials: req.Credentials,
	})
	if err != nil {
		// Credentials are checked before any network call; that failure is
		// the caller's to fix, everything else is ours.
		if errors.Is(err, agent.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "collection failed", "error", err, "source", req.Source)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "collection failed"})
		return
	}

	c.JSON(http.StatusOK, dto.CollectResponse{
		Success:         true,
		Source:          string(result.Platform),
		EventsCollected: result.EventsCollected,
		RunID:           result.RunID,
		Events:          result.Events,
	})
}
