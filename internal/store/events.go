package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aeropulse.app/pulse/common/arangodb"
	"aeropulse.app/pulse/internal/model"
)

// eventCollection maps a platform to its document collection name.
func eventCollection(platform model.Platform) string {
	return "events_" + string(platform)
}

// EventCollections returns every per-platform collection name, used at
// startup to ensure the collections exist.
func EventCollections() []string {
	platforms := model.AllPlatforms()
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, eventCollection(p))
	}
	return names
}

type eventStore struct {
	db arangodb.Client
}

func NewEventStore(db arangodb.Client) EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) BulkStore(ctx context.Context, platform model.Platform, events []model.SocialEvent) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]map[string]any, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling event %s: %w", e.EventID, err)
		}

		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("shaping event document: %w", err)
		}

		// Deterministic key makes re-ingestion an overwrite, not a duplicate.
		doc["_key"] = arangodb.DocumentKey(string(platform), e.EventID)
		docs = append(docs, doc)
	}

	if err := s.db.UpsertDocuments(ctx, eventCollection(platform), docs); err != nil {
		return fmt.Errorf("storing %s events: %w", platform, err)
	}

	return nil
}

func (s *eventStore) ListRecent(ctx context.Context, since time.Time, limit int) ([]model.SocialEvent, error) {
	var all []model.SocialEvent
	for _, platform := range model.AllPlatforms() {
		events, err := s.ListByPlatform(ctx, platform, since)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}

	sortEventsDesc(all)

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *eventStore) ListByPlatform(ctx context.Context, platform model.Platform, since time.Time) ([]model.SocialEvent, error) {
	query := fmt.Sprintf(`
		FOR e IN %s
			FILTER e.timestamp_utc >= @since
			SORT e.timestamp_utc DESC
			RETURN e
	`, eventCollection(platform))

	raw, err := s.db.Query(ctx, query, map[string]any{
		"since": since.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s events: %w", platform, err)
	}

	events := make([]model.SocialEvent, 0, len(raw))
	for _, doc := range raw {
		var e model.SocialEvent
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("decoding %s event: %w", platform, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *eventStore) Stats(ctx context.Context) (model.DataStats, error) {
	stats := model.DataStats{ByPlatform: make(map[string]int)}

	// A long horizon: stats cover everything the dashboard would chart.
	since := time.Now().AddDate(-1, 0, 0)

	for _, platform := range model.AllPlatforms() {
		events, err := s.ListByPlatform(ctx, platform, since)
		if err != nil {
			return model.DataStats{}, err
		}

		stats.ByPlatform[string(platform)] = len(events)
		stats.TotalEvents += len(events)
		for _, e := range events {
			stats.TotalLikes += e.Engagement.Likes
			stats.TotalShares += e.Engagement.Shares
			stats.TotalComments += e.Engagement.Comments
		}
	}

	return stats, nil
}

func sortEventsDesc(events []model.SocialEvent) {
	// Insertion sort is fine at dashboard sizes; collections are already
	// sorted per platform, so the merge is nearly ordered.
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].TimestampUTC.After(events[j-1].TimestampUTC); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
