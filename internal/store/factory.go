package store

import (
	"aeropulse.app/pulse/common/arangodb"
	"aeropulse.app/pulse/core/db"
)

// Stores bundles every persistence interface the services depend on.
type Stores struct {
	Events         EventStore
	CollectionRuns CollectionRunStore
	Conversations  ConversationStore
	Weather        WeatherStore
}

// Collections returns every ArangoDB collection the stores expect to exist.
func Collections() []string {
	return append(EventCollections(), weatherCollection)
}

func New(docs arangodb.Client, database *db.DB) *Stores {
	return &Stores{
		Events:         NewEventStore(docs),
		CollectionRuns: NewCollectionRunStore(database),
		Conversations:  NewConversationStore(database),
		Weather:        NewWeatherStore(docs),
	}
}
