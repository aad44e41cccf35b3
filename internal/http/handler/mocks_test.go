package handler_test

import (
	"context"

	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/service"
)

type mockCollectService struct {
	collectFn func(ctx context.Context, params service.CollectParams) (*service.CollectResult, error)
}

func (m *mockCollectService) Collect(ctx context.Context, params service.CollectParams) (*service.CollectResult, error) {
	if m.collectFn != nil {
		return m.collectFn(ctx, params)
	}
	return &service.CollectResult{Platform: params.Platform}, nil
}

type mockChatService struct {
	chatFn    func(ctx context.Context, sessionID, message string) (*service.ChatResult, error)
	historyFn func(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
}

func (m *mockChatService) Chat(ctx context.Context, sessionID, message string) (*service.ChatResult, error) {
	if m.chatFn != nil {
		return m.chatFn(ctx, sessionID, message)
	}
	return &service.ChatResult{Response: "ok", Route: service.RouteCanned}, nil
}

func (m *mockChatService) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, sessionID)
	}
	return nil, nil
}

type mockEventQueryService struct {
	listFn       func(ctx context.Context, limit int) ([]model.SocialEvent, error)
	statsFn      func(ctx context.Context) (model.DataStats, error)
	recentRunsFn func(ctx context.Context, limit int) ([]model.CollectionRun, error)
}

func (m *mockEventQueryService) List(ctx context.Context, limit int) ([]model.SocialEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockEventQueryService) Stats(ctx context.Context) (model.DataStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return model.DataStats{}, nil
}

func (m *mockEventQueryService) RecentRuns(ctx context.Context, limit int) ([]model.CollectionRun, error) {
	if m.recentRunsFn != nil {
		return m.recentRunsFn(ctx, limit)
	}
	return nil, nil
}

type mockInsightService struct {
	getFn     func(ctx context.Context) ([]model.Insight, error)
	refreshFn func(ctx context.Context) ([]model.Insight, error)
}

func (m *mockInsightService) Get(ctx context.Context) ([]model.Insight, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, nil
}

func (m *mockInsightService) Refresh(ctx context.Context) ([]model.Insight, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return nil, nil
}
