package posts

import (
	"context"
	"fmt"
	"log/slog"

	"aeropulse.app/pulse/common/typesense"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/normalize"
)

// Retriever maintains the post side index and answers retrieval queries for
// the chat assistant.
type Retriever interface {
	Index(ctx context.Context, events []model.SocialEvent) error
	Search(ctx context.Context, query string, limit int) ([]typesense.Hit, error)
}

type retriever struct {
	search typesense.Client
	logger *slog.Logger
}

func New(search typesense.Client, logger *slog.Logger) Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &retriever{search: search, logger: logger}
}

func (r *retriever) Index(ctx context.Context, events []model.SocialEvent) error {
	if len(events) == 0 {
		return nil
	}

	if r.search == nil {
		r.logger.DebugContext(ctx, "search index not configured, skipping indexing")
		return nil
	}

	docs := make([]typesense.Document, 0, len(events))
	for _, e := range events {
		// Agents populate CleanEventText at collection time; normalize again
		// only for records that predate that field.
		text := e.CleanEventText
		if text == "" {
			text = normalize.Clean(e.EventContent)
		}
		if text == "" {
			continue
		}
		docs = append(docs, typesense.Document{
			ID:        string(e.Platform) + ":" + e.EventID,
			Text:      text,
			Platform:  string(e.Platform),
			Sentiment: e.Sentiment.SentimentScore,
			Timestamp: e.TimestampUTC.Unix(),
		})
	}
	if len(docs) == 0 {
		return nil
	}

	if err := r.search.UpsertDocuments(ctx, docs); err != nil {
		return fmt.Errorf("indexing posts: %w", err)
	}

	r.logger.InfoContext(ctx, "posts indexed", "count", len(docs))
	return nil
}

func (r *retriever) Search(ctx context.Context, query string, limit int) ([]typesense.Hit, error) {
	if r.search == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	hits, err := r.search.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching posts: %w", err)
	}
	return hits, nil
}
