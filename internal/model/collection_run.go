package model

import "time"

// RunStatus tracks a collection run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// CollectionRun is the bookkeeping record for one agent collection pass.
// A failed upstream call is recorded here instead of being masked by
// demonstration data, so "no data yet" and "collection failed" stay
// distinguishable.
type CollectionRun struct {
	ID              int64
	Platform        Platform
	Query           string
	Status          RunStatus
	EventsCollected int
	Error           *string
	StartedAt       time.Time
	FinishedAt      *time.Time
}
