package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"aeropulse.app/pulse/common/arangodb"
	"aeropulse.app/pulse/common/id"
	"aeropulse.app/pulse/common/llm"
	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/common/otel"
	"aeropulse.app/pulse/common/typesense"
	"aeropulse.app/pulse/core/config"
	"aeropulse.app/pulse/core/db"
	"aeropulse.app/pulse/internal/agent"
	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/http/middleware"
	httprouter "aeropulse.app/pulse/internal/http/router"
	"aeropulse.app/pulse/internal/queue"
	"aeropulse.app/pulse/internal/retriever/posts"
	"aeropulse.app/pulse/internal/service"
	"aeropulse.app/pulse/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// slog is not set up yet at this point
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "pulse server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	profile, err := airport.Load(cfg.AirportFile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load airport profile", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "airport profile loaded", "airport", profile.AirportName)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	docs, err := arangodb.New(ctx, arangodb.Config{
		URL:      cfg.ArangoDB.URL,
		Username: cfg.ArangoDB.Username,
		Password: cfg.ArangoDB.Password,
		Database: cfg.ArangoDB.Database,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to arangodb", "error", err)
		os.Exit(1)
	}
	defer docs.Close()

	if err := docs.EnsureDatabase(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure arangodb database", "error", err)
		os.Exit(1)
	}
	if err := docs.EnsureCollections(ctx, store.Collections()); err != nil {
		slog.ErrorContext(ctx, "failed to ensure arangodb collections", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "document store ready", "database", cfg.ArangoDB.Database)

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.RedisStream)

	producer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
	defer producer.Close()

	var search typesense.Client
	if cfg.Typesense.Enabled() {
		search, err = typesense.New(typesense.Config{
			URL:        cfg.Typesense.URL,
			APIKey:     cfg.Typesense.APIKey,
			Collection: cfg.Typesense.Collection,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to build typesense client", "error", err)
			os.Exit(1)
		}
		if err := search.EnsureCollection(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to ensure typesense collection", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "search index ready", "collection", cfg.Typesense.Collection)
	} else {
		slog.WarnContext(ctx, "typesense not configured, retrieval disabled")
	}

	var assistant llm.Client
	if cfg.AssistantLLM.Enabled() {
		assistant, err = llm.New(llm.Config{
			APIKey:  cfg.AssistantLLM.APIKey,
			BaseURL: cfg.AssistantLLM.BaseURL,
			Model:   cfg.AssistantLLM.Model,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to build llm client", "error", err)
			os.Exit(1)
		}
	} else {
		slog.WarnContext(ctx, "assistant llm not configured, chat falls back to canned replies")
	}

	stores := store.New(docs, database)
	agents := buildAgents(cfg, profile)
	retriever := posts.New(search, nil)

	services := service.NewServices(stores, agents, profile, producer, retriever, assistant, redisClient, nil)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func buildAgents(cfg config.Config, profile *airport.Profile) *agent.Manager {
	return agent.NewManager(profile,
		agent.NewTwitterAgent(agent.TwitterConfig{BearerToken: cfg.Agents.TwitterBearerToken}, profile),
		agent.NewRedditAgent(agent.RedditConfig{
			ClientID:     cfg.Agents.RedditClientID,
			ClientSecret: cfg.Agents.RedditClientSecret,
			UserAgent:    cfg.Agents.RedditUserAgent,
		}, profile),
		agent.NewFacebookAgent(agent.FacebookConfig{
			AccessToken: cfg.Agents.FacebookAccessToken,
			PageID:      cfg.Agents.FacebookPageID,
		}, profile),
		agent.NewRSSAgent(agent.RSSConfig{FeedURL: cfg.Agents.CNNFeedURL}, profile),
		agent.NewInshortsAgent(profile),
	)
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	httprouter.SetupRoutes(router, services, cfg.AdminAPIKey)

	return router
}

const banner = `
██████╗ ██╗   ██╗██╗     ███████╗███████╗
██╔══██╗██║   ██║██║     ██╔════╝██╔════╝
██████╔╝██║   ██║██║     ███████╗█████╗
██╔═══╝ ██║   ██║██║     ╚════██║██╔══╝
██║     ╚██████╔╝███████╗███████║███████╗
╚═╝      ╚═════╝ ╚══════╝╚══════╝╚══════╝
`
