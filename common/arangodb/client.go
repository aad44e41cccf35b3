package arangodb

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
)

// Client wraps the ArangoDB driver with the document operations the event
// store needs: idempotent bulk upsert keyed by _key, and AQL reads.
type Client interface {
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context, names []string) error

	// UpsertDocuments replaces-or-inserts documents by _key. Re-ingesting the
	// same document is a no-op apart from overwriting identical content.
	UpsertDocuments(ctx context.Context, collection string, docs []map[string]any) error

	// Query runs an AQL query and returns the raw result documents.
	Query(ctx context.Context, query string, bindVars map[string]any) ([]json.RawMessage, error)

	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		_, err = c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context, names []string) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, name := range names {
		exists, err := c.db.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check collection %s exists: %w", name, err)
		}
		if exists {
			continue
		}

		colType := arangodb.CollectionTypeDocument
		_, err = c.db.CreateCollectionV2(ctx, name, &arangodb.CreateCollectionPropertiesV2{
			Type: &colType,
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		slog.InfoContext(ctx, "arangodb collection created", "collection", name)
	}

	return nil
}

func (c *client) UpsertDocuments(ctx context.Context, collection string, docs []map[string]any) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	if len(docs) == 0 {
		return nil
	}

	start := time.Now()
	col, err := c.db.GetCollection(ctx, collection, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", collection, err)
	}

	overwrite := arangodb.CollectionDocumentCreateOverwriteModeReplace
	reader, err := col.CreateDocumentsWithOptions(ctx, docs, &arangodb.CollectionDocumentCreateOptions{
		OverwriteMode: &overwrite,
	})
	if err != nil {
		return fmt.Errorf("upsert documents: %w", err)
	}

	// Consume all responses (replace mode makes duplicate keys a non-error)
	for {
		_, readErr := reader.Read()
		if readErr != nil {
			break
		}
	}

	slog.DebugContext(ctx, "arangodb documents upserted",
		"collection", collection,
		"count", len(docs),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *client) Query(ctx context.Context, query string, bindVars map[string]any) ([]json.RawMessage, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	start := time.Now()

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer cursor.Close()

	var results []json.RawMessage
	for cursor.HasMore() {
		var doc json.RawMessage
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		results = append(results, doc)
	}

	slog.DebugContext(ctx, "arangodb query completed",
		"results", len(results),
		"duration_ms", time.Since(start).Milliseconds())

	return results, nil
}

// DocumentKey builds the deterministic _key for an event so that upserting
// the same (event_id, platform) pair always hits the same document.
func DocumentKey(platform, eventID string) string {
	hash := md5.Sum([]byte(platform + ":" + eventID))
	return hex.EncodeToString(hash[:])[:16]
}
