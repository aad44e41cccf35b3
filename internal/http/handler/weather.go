package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropulse.app/pulse/internal/service"
)

type WeatherHandler struct {
	service service.WeatherService
}

func NewWeatherHandler(service service.WeatherService) *WeatherHandler {
	return &WeatherHandler{service: service}
}

func (h *WeatherHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	observations, err := h.service.List(ctx, 24)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list weather observations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list weather observations"})
		return
	}

	c.JSON(http.StatusOK, observations)
}
