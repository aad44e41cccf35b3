package dto

import "time"

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}

type ChatResponse struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response"`
	Route     string    `json:"route"`
	Timestamp time.Time `json:"timestamp"`
}
