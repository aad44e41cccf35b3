package store

import (
	"context"
	"errors"
	"time"

	"aeropulse.app/pulse/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// EventStore defines the contract for social event persistence.
// (event_id, platform) is the de-duplication key; BulkStore is an idempotent
// upsert, so repeated ingestion of the same batch leaves exactly one record
// per event.
type EventStore interface {
	BulkStore(ctx context.Context, platform model.Platform, events []model.SocialEvent) error
	ListRecent(ctx context.Context, since time.Time, limit int) ([]model.SocialEvent, error)
	ListByPlatform(ctx context.Context, platform model.Platform, since time.Time) ([]model.SocialEvent, error)
	Stats(ctx context.Context) (model.DataStats, error)
}

// CollectionRunStore records the bookkeeping rows for collection passes.
type CollectionRunStore interface {
	Create(ctx context.Context, run *model.CollectionRun) error
	Finish(ctx context.Context, id int64, status model.RunStatus, eventsCollected int, runErr *string) error
	ListRecent(ctx context.Context, limit int) ([]model.CollectionRun, error)
}

// ConversationStore persists assistant chat history per session.
type ConversationStore interface {
	Append(ctx context.Context, msg *model.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error)
}

// WeatherStore serves stored weather observations for the airport's city.
type WeatherStore interface {
	Store(ctx context.Context, obs []model.WeatherObservation) error
	List(ctx context.Context, limit int) ([]model.WeatherObservation, error)
}
