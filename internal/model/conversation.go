package model

import "time"

// ChatMessage is one turn in an assistant conversation, keyed by the
// caller-supplied session ID.
type ChatMessage struct {
	ID        int64
	SessionID string
	Role      string // user | assistant
	Content   string
	Route     string // canned | llm | fallback (empty for user turns)
	CreatedAt time.Time
}

// Chat role constants.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)
