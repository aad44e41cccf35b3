package service

import (
	"context"
	"time"

	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/store"
)

const defaultEventLimit = 100

// EventQueryService answers the dashboard's read queries over stored events.
type EventQueryService interface {
	List(ctx context.Context, limit int) ([]model.SocialEvent, error)
	Stats(ctx context.Context) (model.DataStats, error)
	RecentRuns(ctx context.Context, limit int) ([]model.CollectionRun, error)
}

type eventQueryService struct {
	stores *store.Stores
}

func NewEventQueryService(stores *store.Stores) EventQueryService {
	return &eventQueryService{stores: stores}
}

func (s *eventQueryService) List(ctx context.Context, limit int) ([]model.SocialEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	since := time.Now().AddDate(0, 0, -30)
	return s.stores.Events.ListRecent(ctx, since, limit)
}

func (s *eventQueryService) Stats(ctx context.Context) (model.DataStats, error) {
	return s.stores.Events.Stats(ctx)
}

func (s *eventQueryService) RecentRuns(ctx context.Context, limit int) ([]model.CollectionRun, error) {
	return s.stores.CollectionRuns.ListRecent(ctx, limit)
}
