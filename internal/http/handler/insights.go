package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropulse.app/pulse/internal/service"
)

type InsightsHandler struct {
	service service.InsightService
}

func NewInsightsHandler(service service.InsightService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

func (h *InsightsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	insights, err := h.service.Get(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate insights", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate insights"})
		return
	}

	c.JSON(http.StatusOK, insights)
}
