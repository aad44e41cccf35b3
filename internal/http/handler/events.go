package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aeropulse.app/pulse/internal/service"
)

type EventsHandler struct {
	service service.EventQueryService
}

func NewEventsHandler(service service.EventQueryService) *EventsHandler {
	return &EventsHandler{service: service}
}

func (h *EventsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	events, err := h.service.List(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to compute stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *EventsHandler) Runs(c *gin.Context) {
	ctx := c.Request.Context()

	runs, err := h.service.RecentRuns(ctx, 20)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list collection runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list collection runs"})
		return
	}

	c.JSON(http.StatusOK, runs)
}
