package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"aeropulse.app/pulse/internal/insight"
	"aeropulse.app/pulse/internal/metrics"
	"aeropulse.app/pulse/internal/model"
)

const (
	insightCacheKey = "pulse:insights"
	insightCacheTTL = 5 * time.Minute
)

// InsightService serves ranked insights, caching the rendered set briefly so
// dashboard polling doesn't re-run the aggregation on every request.
type InsightService interface {
	Get(ctx context.Context) ([]model.Insight, error)
	Refresh(ctx context.Context) ([]model.Insight, error)
}

type insightService struct {
	generator *insight.Generator
	cache     *redis.Client
	logger    *slog.Logger
}

func NewInsightService(generator *insight.Generator, cache *redis.Client, logger *slog.Logger) InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &insightService{
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

func (s *insightService) Get(ctx context.Context) ([]model.Insight, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, insightCacheKey).Bytes()
		if err == nil {
			var insights []model.Insight
			if unmarshalErr := json.Unmarshal(cached, &insights); unmarshalErr == nil {
				return insights, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "insight cache read failed", "error", err)
		}
	}

	return s.Refresh(ctx)
}

// Refresh regenerates the insight set wholesale and replaces the cache entry.
func (s *insightService) Refresh(ctx context.Context) ([]model.Insight, error) {
	insights, err := s.generator.Generate(ctx)
	if err != nil {
		return nil, err
	}
	metrics.InsightsGenerated.Inc()

	if s.cache != nil {
		data, marshalErr := json.Marshal(insights)
		if marshalErr == nil {
			if err := s.cache.Set(ctx, insightCacheKey, data, insightCacheTTL).Err(); err != nil {
				s.logger.WarnContext(ctx, "insight cache write failed", "error", err)
			}
		}
	}

	return insights, nil
}
