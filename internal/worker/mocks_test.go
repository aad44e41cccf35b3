package worker_test

import (
	"context"
	"sync"
	"time"

	"aeropulse.app/pulse/common/typesense"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/queue"
	"aeropulse.app/pulse/internal/service"
)

// mockConsumer serves scripted batches and records the worker's outcomes.
type mockConsumer struct {
	mu       sync.Mutex
	batches  [][]queue.Message
	acked    []queue.Message
	requeued []queue.Message
	dlq      []queue.Message
	lastErrs []string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	m.mu.Lock()
	if len(m.batches) > 0 {
		batch := m.batches[0]
		m.batches = m.batches[1:]
		m.mu.Unlock()
		return batch, nil
	}
	m.mu.Unlock()
	// Nothing queued; pace the worker loop like a blocking read would.
	time.Sleep(2 * time.Millisecond)
	return nil, nil
}

func (m *mockConsumer) Ack(ctx context.Context, msg queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, msg)
	return nil
}

func (m *mockConsumer) Requeue(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, msg)
	m.lastErrs = append(m.lastErrs, errMsg)
	return nil
}

func (m *mockConsumer) SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dlq = append(m.dlq, msg)
	m.lastErrs = append(m.lastErrs, errMsg)
	return nil
}

func (m *mockConsumer) ackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acked)
}

func (m *mockConsumer) requeuedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requeued)
}

func (m *mockConsumer) dlqCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dlq)
}

func (m *mockConsumer) lastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.lastErrs) == 0 {
		return ""
	}
	return m.lastErrs[len(m.lastErrs)-1]
}

type mockCollectService struct {
	mu        sync.Mutex
	collectFn func(ctx context.Context, params service.CollectParams) (*service.CollectResult, error)
	calls     []service.CollectParams
}

func (m *mockCollectService) Collect(ctx context.Context, params service.CollectParams) (*service.CollectResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()
	if m.collectFn != nil {
		return m.collectFn(ctx, params)
	}
	return &service.CollectResult{Platform: params.Platform}, nil
}

func (m *mockCollectService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockEventStore struct {
	listByPlatformFn func(ctx context.Context, platform model.Platform, since time.Time) ([]model.SocialEvent, error)
}

func (m *mockEventStore) BulkStore(ctx context.Context, platform model.Platform, events []model.SocialEvent) error {
	return nil
}

func (m *mockEventStore) ListRecent(ctx context.Context, since time.Time, limit int) ([]model.SocialEvent, error) {
	return nil, nil
}

func (m *mockEventStore) ListByPlatform(ctx context.Context, platform model.Platform, since time.Time) ([]model.SocialEvent, error) {
	if m.listByPlatformFn != nil {
		return m.listByPlatformFn(ctx, platform, since)
	}
	return nil, nil
}

func (m *mockEventStore) Stats(ctx context.Context) (model.DataStats, error) {
	return model.DataStats{}, nil
}

type mockRetriever struct {
	mu      sync.Mutex
	indexFn func(ctx context.Context, events []model.SocialEvent) error
	indexed [][]model.SocialEvent
}

func (m *mockRetriever) Index(ctx context.Context, events []model.SocialEvent) error {
	m.mu.Lock()
	m.indexed = append(m.indexed, events)
	m.mu.Unlock()
	if m.indexFn != nil {
		return m.indexFn(ctx, events)
	}
	return nil
}

func (m *mockRetriever) Search(ctx context.Context, query string, limit int) ([]typesense.Hit, error) {
	return nil, nil
}

type mockProducer struct {
	mu        sync.Mutex
	enqueueFn func(ctx context.Context, task queue.Task) error
	tasks     []queue.Task
}

func (m *mockProducer) Enqueue(ctx context.Context, task queue.Task) error {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, task)
	}
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) taskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *mockProducer) allTasks() []queue.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]queue.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}
