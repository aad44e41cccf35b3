package store

import (
	"context"
	"encoding/json"
	"fmt"

	"aeropulse.app/pulse/common/arangodb"
	"aeropulse.app/pulse/internal/model"
)

const weatherCollection = "weather_observations"

type weatherStore struct {
	db arangodb.Client
}

func NewWeatherStore(db arangodb.Client) WeatherStore {
	return &weatherStore{db: db}
}

func (s *weatherStore) Store(ctx context.Context, obs []model.WeatherObservation) error {
	if len(obs) == 0 {
		return nil
	}

	docs := make([]map[string]any, 0, len(obs))
	for _, o := range obs {
		data, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("marshaling weather observation: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("shaping weather document: %w", err)
		}
		// One document per city and observation time; re-fetching the same
		// reading overwrites instead of duplicating.
		doc["_key"] = arangodb.DocumentKey(o.City, o.ObservedAt.UTC().Format("2006-01-02T15"))
		docs = append(docs, doc)
	}

	if err := s.db.UpsertDocuments(ctx, weatherCollection, docs); err != nil {
		return fmt.Errorf("storing weather observations: %w", err)
	}
	return nil
}

func (s *weatherStore) List(ctx context.Context, limit int) ([]model.WeatherObservation, error) {
	if limit <= 0 {
		limit = 24
	}

	raw, err := s.db.Query(ctx, `
		FOR w IN weather_observations
			SORT w.observed_at DESC
			LIMIT @limit
			RETURN w
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("listing weather observations: %w", err)
	}

	obs := make([]model.WeatherObservation, 0, len(raw))
	for _, doc := range raw {
		var o model.WeatherObservation
		if err := json.Unmarshal(doc, &o); err != nil {
			return nil, fmt.Errorf("decoding weather observation: %w", err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}
