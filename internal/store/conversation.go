package store

import (
	"context"
	"fmt"
	"time"

	"aeropulse.app/pulse/common/id"
	"aeropulse.app/pulse/core/db"
	"aeropulse.app/pulse/internal/model"
)

type conversationStore struct {
	db *db.DB
}

func NewConversationStore(database *db.DB) ConversationStore {
	return &conversationStore{db: database}
}

func (s *conversationStore) Append(ctx context.Context, msg *model.ChatMessage) error {
	if msg.ID == 0 {
		msg.ID = id.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Pool().Exec(ctx, `
		INSERT INTO conversations (id, session_id, role, content, route, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Route, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending chat message: %w", err)
	}
	return nil
}

func (s *conversationStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Pool().Query(ctx, `
		SELECT id, session_id, role, content, route, created_at
		FROM conversations
		WHERE session_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing session messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Route, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chat messages: %w", err)
	}
	return msgs, nil
}
