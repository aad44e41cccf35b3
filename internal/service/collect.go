package service

import (
	"context"
	"fmt"
	"log/slog"

	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/internal/agent"
	"aeropulse.app/pulse/internal/metrics"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/queue"
	"aeropulse.app/pulse/internal/store"
)

type CollectParams struct {
	Platform    model.Platform
	Query       string
	Credentials map[string]string
}

type CollectResult struct {
	Platform        model.Platform
	EventsCollected int
	RunID           int64
	Events          []model.SocialEvent
}

// CollectService runs one platform's collection pass end to end: collect,
// store, record the run, and hand indexing off to the queue.
type CollectService interface {
	Collect(ctx context.Context, params CollectParams) (*CollectResult, error)
}

type collectService struct {
	agents   *agent.Manager
	stores   *store.Stores
	producer queue.Producer
	logger   *slog.Logger
}

func NewCollectService(agents *agent.Manager, stores *store.Stores, producer queue.Producer, logger *slog.Logger) CollectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &collectService{
		agents:   agents,
		stores:   stores,
		producer: producer,
		logger:   logger,
	}
}

func (s *collectService) Collect(ctx context.Context, params CollectParams) (*CollectResult, error) {
	if !params.Platform.Valid() {
		return nil, fmt.Errorf("unknown platform %q", params.Platform)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Platform:  logger.Ptr(string(params.Platform)),
		Component: "pulse.service.collect",
	})

	if len(params.Credentials) > 0 {
		if err := s.agents.SetCredentials(params.Platform, params.Credentials); err != nil {
			return nil, err
		}
	}

	run := &model.CollectionRun{
		Platform: params.Platform,
		Query:    params.Query,
	}
	if err := s.stores.CollectionRuns.Create(ctx, run); err != nil {
		return nil, err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{RunID: &run.ID})

	events, err := s.agents.Collect(ctx, params.Platform, params.Query)
	if err != nil {
		s.finishRun(ctx, run.ID, model.RunStatusFailed, 0, err)
		metrics.CollectionFailures.WithLabelValues(string(params.Platform)).Inc()
		return nil, err
	}

	if err := s.stores.Events.BulkStore(ctx, params.Platform, events); err != nil {
		s.finishRun(ctx, run.ID, model.RunStatusFailed, 0, err)
		metrics.CollectionFailures.WithLabelValues(string(params.Platform)).Inc()
		return nil, err
	}

	s.finishRun(ctx, run.ID, model.RunStatusCompleted, len(events), nil)
	metrics.EventsCollected.WithLabelValues(string(params.Platform)).Add(float64(len(events)))

	// Indexing is a queue task rather than a fire-and-forget goroutine, so a
	// failed index write gets the consumer's retry/DLQ treatment instead of
	// vanishing into a log line.
	if len(events) > 0 {
		task := queue.Task{
			TaskType: queue.TaskTypeIndexEvents,
			Platform: string(params.Platform),
			RunID:    &run.ID,
		}
		if err := s.producer.Enqueue(ctx, task); err != nil {
			s.logger.ErrorContext(ctx, "failed to enqueue index task", "error", err)
		}
	}

	return &CollectResult{
		Platform:        params.Platform,
		EventsCollected: len(events),
		RunID:           run.ID,
		Events:          events,
	}, nil
}

func (s *collectService) finishRun(ctx context.Context, runID int64, status model.RunStatus, collected int, runErr error) {
	var errMsg *string
	if runErr != nil {
		errMsg = logger.Ptr(runErr.Error())
	}
	if err := s.stores.CollectionRuns.Finish(ctx, runID, status, collected, errMsg); err != nil {
		s.logger.ErrorContext(ctx, "failed to finish collection run", "error", err, "run_id", runID)
	}
}
