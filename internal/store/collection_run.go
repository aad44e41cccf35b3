package store

import (
	"context"
	"fmt"
	"time"

	"aeropulse.app/pulse/common/id"
	"aeropulse.app/pulse/core/db"
	"aeropulse.app/pulse/internal/model"
)

type collectionRunStore struct {
	db *db.DB
}

func NewCollectionRunStore(database *db.DB) CollectionRunStore {
	return &collectionRunStore{db: database}
}

func (s *collectionRunStore) Create(ctx context.Context, run *model.CollectionRun) error {
	if run.ID == 0 {
		run.ID = id.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = model.RunStatusRunning

	_, err := s.db.Pool().Exec(ctx, `
		INSERT INTO collection_runs (id, platform, query, status, events_collected, started_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`, run.ID, run.Platform, run.Query, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("creating collection run: %w", err)
	}
	return nil
}

func (s *collectionRunStore) Finish(ctx context.Context, runID int64, status model.RunStatus, eventsCollected int, runErr *string) error {
	tag, err := s.db.Pool().Exec(ctx, `
		UPDATE collection_runs
		SET status = $2, events_collected = $3, error = $4, finished_at = $5
		WHERE id = $1
	`, runID, status, eventsCollected, runErr, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("finishing collection run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *collectionRunStore) ListRecent(ctx context.Context, limit int) ([]model.CollectionRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Pool().Query(ctx, `
		SELECT id, platform, query, status, events_collected, error, started_at, finished_at
		FROM collection_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing collection runs: %w", err)
	}
	defer rows.Close()

	var runs []model.CollectionRun
	for rows.Next() {
		var r model.CollectionRun
		if err := rows.Scan(&r.ID, &r.Platform, &r.Query, &r.Status, &r.EventsCollected, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning collection run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading collection runs: %w", err)
	}
	return runs, nil
}
