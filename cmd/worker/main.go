package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"aeropulse.app/pulse/common/arangodb"
	"aeropulse.app/pulse/common/id"
	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/common/otel"
	"aeropulse.app/pulse/common/typesense"
	"aeropulse.app/pulse/core/config"
	"aeropulse.app/pulse/core/db"
	"aeropulse.app/pulse/internal/agent"
	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/queue"
	"aeropulse.app/pulse/internal/retriever/posts"
	"aeropulse.app/pulse/internal/service"
	"aeropulse.app/pulse/internal/store"
	"aeropulse.app/pulse/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "pulse worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Queue.RedisGroup,
		"consumer_name", cfg.Queue.RedisConsumer)

	// Different node ID than the server so snowflake IDs never collide
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
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
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.RedisStream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Queue.RedisStream,
		Group:        cfg.Queue.RedisGroup,
		Consumer:     cfg.Queue.RedisConsumer,
		DLQStream:    cfg.Queue.RedisDLQStream,
		BatchSize:    1, // One collection pass at a time
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Collector.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

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
	} else {
		slog.WarnContext(ctx, "typesense not configured, index tasks become no-ops")
	}

	stores := store.New(docs, database)
	agents := buildAgents(cfg, profile)
	retriever := posts.New(search, nil)
	producer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
	collectService := service.NewCollectService(agents, stores, producer, nil)

	w := worker.New(consumer, collectService, stores.Events, retriever, worker.Config{
		MaxAttempts: cfg.Collector.MaxAttempts,
	})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:    cfg.Queue.RedisStream,
		Group:     cfg.Queue.RedisGroup,
		Consumer:  cfg.Queue.RedisConsumer + "-reclaimer",
		MinIdle:   5 * time.Minute,
		Interval:  1 * time.Minute,
		BatchSize: 10,
	}, consumer, w.ProcessMessage)

	scheduler := worker.NewScheduler(producer, agents.ConfiguredPlatforms(), worker.SchedulerConfig{
		Interval: cfg.Collector.Interval,
	})

	errCh := make(chan error, 3)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()
	go func() {
		scheduler.Run(ctx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Stop the scheduler and reclaimer first (quick), then the worker (may be mid-task)
	scheduler.Stop()
	reclaimer.Stop()
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
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

const banner = `
██████╗ ██╗   ██╗██╗     ███████╗███████╗    ██╗    ██╗ ██████╗ ██████╗ ██╗  ██╗███████╗██████╗
██╔══██╗██║   ██║██║     ██╔════╝██╔════╝    ██║    ██║██╔═══██╗██╔══██╗██║ ██╔╝██╔════╝██╔══██╗
██████╔╝██║   ██║██║     ███████╗█████╗      ██║ █╗ ██║██║   ██║██████╔╝█████╔╝ █████╗  ██████╔╝
██╔═══╝ ██║   ██║██║     ╚════██║██╔══╝      ██║███╗██║██║   ██║██╔══██╗██╔═██╗ ██╔══╝  ██╔══██╗
██║     ╚██████╔╝███████╗███████║███████╗    ╚███╔███╔╝╚██████╔╝██║  ██║██║  ██╗███████╗██║  ██║
╚═╝      ╚═════╝ ╚══════╝╚══════╝╚══════╝     ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
