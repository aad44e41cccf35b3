package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aeropulse.app/pulse/internal/http/handler"
	"aeropulse.app/pulse/internal/http/middleware"
	"aeropulse.app/pulse/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services, adminKey string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	collectHandler := handler.NewCollectHandler(services.Collect())
	eventsHandler := handler.NewEventsHandler(services.Events())
	insightsHandler := handler.NewInsightsHandler(services.Insights())
	chatHandler := handler.NewChatHandler(services.Chat())
	airportHandler := handler.NewAirportHandler(services.Profile())
	weatherHandler := handler.NewWeatherHandler(services.Weather())

	api := router.Group("/api")
	{
		api.POST("/collect-data", middleware.AdminKey(adminKey), collectHandler.Collect)
		api.GET("/social-events", eventsHandler.List)
		api.GET("/data-stats", eventsHandler.Stats)
		api.GET("/collection-runs", eventsHandler.Runs)
		api.GET("/insights", insightsHandler.List)
		api.POST("/ava/chat", chatHandler.Chat)
		api.GET("/ava/history/:sessionId", chatHandler.History)
		api.GET("/airport-config", airportHandler.Config)
		api.GET("/weather", weatherHandler.List)
	}
}
