package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/queue"
)

type SchedulerConfig struct {
	Interval time.Duration
}

// Scheduler enqueues a collection task for every registered platform on a
// fixed interval. An atomic guard keeps ticks from overlapping: if a round is
// still being enqueued when the next tick fires, that tick is skipped rather
// than started concurrently.
type Scheduler struct {
	producer  queue.Producer
	platforms []model.Platform
	cfg       SchedulerConfig

	running   atomic.Bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewScheduler(producer queue.Producer, platforms []model.Platform, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Scheduler{
		producer:  producer,
		platforms: platforms,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run blocks until Stop is called or the context is cancelled. The first
// round runs immediately so a fresh deployment has data without waiting a
// full interval.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "pulse.worker.scheduler",
	})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "scheduler started",
		"interval", s.cfg.Interval,
		"platforms", len(s.platforms))

	s.RunRound(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "scheduler stopping")
			return
		case <-ticker.C:
			s.RunRound(ctx)
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

// RunRound enqueues one collection round. At most one round runs at a time:
// if a round is already in flight the call is skipped and RunRound reports
// false.
func (s *Scheduler) RunRound(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "previous collection round still in progress, skipping")
		return false
	}
	defer s.running.Store(false)

	for _, platform := range s.platforms {
		task := queue.Task{
			TaskType: queue.TaskTypeCollect,
			Platform: string(platform),
		}
		if err := s.producer.Enqueue(ctx, task); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue collection task",
				"error", err,
				"platform", platform)
		}
	}

	slog.InfoContext(ctx, "collection round enqueued", "platforms", len(s.platforms))
	return true
}
