package typesense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"
)

// Document is one indexed post in the side index used by the assistant's
// retrieval step.
type Document struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Platform  string  `json:"platform"`
	Sentiment float64 `json:"sentiment"`
	Timestamp int64   `json:"timestamp"`
}

// Hit is one search result with the fields the assistant prompt needs.
type Hit struct {
	Text      string
	Platform  string
	Sentiment float64
}

type Client interface {
	EnsureCollection(ctx context.Context) error
	UpsertDocuments(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
}

type client struct {
	ts         *typesense.Client
	collection string
}

func New(cfg Config) (Client, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("typesense URL and API key are required")
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "posts"
	}

	ts := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	return &client{ts: ts, collection: collection}, nil
}

func (c *client) EnsureCollection(ctx context.Context) error {
	schema := &api.CollectionSchema{
		Name: c.collection,
		Fields: []api.Field{
			{Name: "text", Type: "string"},
			{Name: "platform", Type: "string", Facet: pointer.True()},
			{Name: "sentiment", Type: "float"},
			{Name: "timestamp", Type: "int64", Sort: pointer.True()},
		},
		DefaultSortingField: pointer.String("timestamp"),
	}

	if _, err := c.ts.Collections().Create(ctx, schema); err != nil {
		// Already-exists is fine; the schema is stable.
		slog.DebugContext(ctx, "typesense create collection", "collection", c.collection, "error", err)
	}
	return nil
}

func (c *client) UpsertDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	payload := make([]any, len(docs))
	for i, d := range docs {
		payload[i] = d
	}

	start := time.Now()
	responses, err := c.ts.Collection(c.collection).Documents().Import(ctx, payload, &api.ImportDocumentsParams{
		Action:    pointer.Any(api.Upsert),
		BatchSize: pointer.Int(100),
	})
	if err != nil {
		return fmt.Errorf("import documents: %w", err)
	}

	for _, resp := range responses {
		if !resp.Success {
			return fmt.Errorf("import document: %s", resp.Error)
		}
	}

	slog.DebugContext(ctx, "typesense documents upserted",
		"collection", c.collection,
		"count", len(docs),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *client) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}

	result, err := c.ts.Collection(c.collection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("text"),
		PerPage: pointer.Int(limit),
		SortBy:  pointer.String("timestamp:desc"),
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if result.Hits == nil {
		return nil, nil
	}

	hits := make([]Hit, 0, len(*result.Hits))
	for _, h := range *result.Hits {
		if h.Document == nil {
			continue
		}
		doc := *h.Document
		hit := Hit{}
		if v, ok := doc["text"].(string); ok {
			hit.Text = v
		}
		if v, ok := doc["platform"].(string); ok {
			hit.Platform = v
		}
		if v, ok := doc["sentiment"].(float64); ok {
			hit.Sentiment = v
		}
		hits = append(hits, hit)
	}

	return hits, nil
}
