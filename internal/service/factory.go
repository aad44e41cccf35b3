package service

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"aeropulse.app/pulse/common/llm"
	"aeropulse.app/pulse/internal/agent"
	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/insight"
	"aeropulse.app/pulse/internal/queue"
	"aeropulse.app/pulse/internal/retriever/posts"
	"aeropulse.app/pulse/internal/store"
)

type Services struct {
	stores    *store.Stores
	agents    *agent.Manager
	profile   *airport.Profile
	producer  queue.Producer
	retriever posts.Retriever
	llm       llm.Client
	cache     *redis.Client
	logger    *slog.Logger
}

func NewServices(
	stores *store.Stores,
	agents *agent.Manager,
	profile *airport.Profile,
	producer queue.Producer,
	retriever posts.Retriever,
	llmClient llm.Client,
	cache *redis.Client,
	logger *slog.Logger,
) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		stores:    stores,
		agents:    agents,
		profile:   profile,
		producer:  producer,
		retriever: retriever,
		llm:       llmClient,
		cache:     cache,
		logger:    logger,
	}
}

func (s *Services) Collect() CollectService {
	return NewCollectService(s.agents, s.stores, s.producer, s.logger)
}

func (s *Services) Events() EventQueryService {
	return NewEventQueryService(s.stores)
}

func (s *Services) Insights() InsightService {
	return NewInsightService(s.insightGenerator(), s.cache, s.logger)
}

func (s *Services) Chat() ChatService {
	return NewChatService(s.stores, s.insightGenerator(), s.retriever, s.llm, s.logger)
}

func (s *Services) Weather() WeatherService {
	return NewWeatherService(s.stores)
}

func (s *Services) Profile() *airport.Profile {
	return s.profile
}

func (s *Services) insightGenerator() *insight.Generator {
	return insight.NewGenerator(s.stores.Events, s.profile)
}
