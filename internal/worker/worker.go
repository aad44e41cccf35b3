package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/queue"
	"aeropulse.app/pulse/internal/retriever/posts"
	"aeropulse.app/pulse/internal/service"
	"aeropulse.app/pulse/internal/store"
)

type Config struct {
	MaxAttempts int
	// IndexWindow bounds how far back an index task re-reads events.
	IndexWindow time.Duration
}

// Worker consumes queue tasks: collection passes and search-index writes.
type Worker struct {
	consumer Consumer
	collect  service.CollectService
	events   store.EventStore
	posts    posts.Retriever
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, collect service.CollectService, events store.EventStore, postsRetriever posts.Retriever, cfg Config) *Worker {
	if cfg.IndexWindow <= 0 {
		cfg.IndexWindow = 24 * time.Hour
	}
	return &Worker{
		consumer:  consumer,
		collect:   collect,
		events:    events,
		posts:     postsRetriever,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"task_type", msg.TaskType,
				"platform", msg.Platform)
			w.handleFailedMessage(ctx, msg, err)
			continue
		}

		if err := w.consumer.Ack(ctx, msg); err != nil {
			// Safe to ignore: the reclaimer will re-deliver and the task
			// handlers are idempotent.
			slog.WarnContext(ctx, "failed to ACK message",
				"error", err,
				"message_id", msg.ID)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"task_type", msg.TaskType)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage executes one task. Exported so it can be reused by the
// reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) (err error) {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_message",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer func() {
		sc.RecordError(err)
		sc.End()
	}()
	ctx = sc.Context()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Platform:  logger.Ptr(msg.Platform),
		MessageID: &msg.ID,
		Component: "pulse.worker",
	})

	slog.InfoContext(ctx, "processing task",
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)

	switch msg.TaskType {
	case queue.TaskTypeCollect:
		return w.runCollect(ctx, msg)
	case queue.TaskTypeIndexEvents:
		return w.runIndex(ctx, msg)
	default:
		return fmt.Errorf("unhandled task type %q", msg.TaskType)
	}
}

func (w *Worker) runCollect(ctx context.Context, msg queue.Message) error {
	result, err := w.collect.Collect(ctx, service.CollectParams{
		Platform: model.Platform(msg.Platform),
		Query:    msg.Query,
	})
	if err != nil {
		return fmt.Errorf("scheduled collection: %w", err)
	}

	slog.InfoContext(ctx, "scheduled collection completed",
		"events", result.EventsCollected,
		"run_id", result.RunID)
	return nil
}

func (w *Worker) runIndex(ctx context.Context, msg queue.Message) error {
	since := time.Now().Add(-w.cfg.IndexWindow)
	events, err := w.events.ListByPlatform(ctx, model.Platform(msg.Platform), since)
	if err != nil {
		return fmt.Errorf("loading events for indexing: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	if err := w.posts.Index(ctx, events); err != nil {
		return err
	}

	slog.InfoContext(ctx, "events indexed", "count", len(events))
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"task_type", msg.TaskType,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
