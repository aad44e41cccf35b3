package dto

import "aeropulse.app/pulse/internal/model"

type CollectRequest struct {
	Source      string            `json:"source" binding:"required"`
	Credentials map[string]string `json:"credentials,omitempty"`
	Query       string            `json:"query,omitempty"`
}

type CollectResponse struct {
	Success         bool                `json:"success"`
	Source          string              `json:"source"`
	EventsCollected int                 `json:"eventsCollected"`
	RunID           int64               `json:"runId"`
	Events          []model.SocialEvent `json:"events,omitempty"`
}
