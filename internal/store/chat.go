// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"capsule/internal/models"
)

// ChatStore handles chat sessions and their ordered messages.
type ChatStore struct {
	db *sql.DB
}

// NewChatStore creates a new ChatStore with the given database connection.
func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

// ListSessionsByUser returns a user's visible chat sessions, newest first.
func (s *ChatStore) ListSessionsByUser(userID uuid.UUID) ([]models.ChatSession, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, brand_kit_id, title, visible, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1 AND visible = TRUE
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var cs models.ChatSession
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.BrandKitID, &cs.Title,
			&cs.Visible, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		sessions = append(sessions, cs)
	}
	return sessions, rows.Err()
}

// FindSessionByID retrieves a chat session by UUID. Returns nil if not found.
func (s *ChatStore) FindSessionByID(id uuid.UUID) (*models.ChatSession, error) {
	cs := &models.ChatSession{}
	err := s.db.QueryRow(`
		SELECT id, user_id, brand_kit_id, title, visible, created_at, updated_at
		FROM chat_sessions WHERE id = $1
	`, id).Scan(&cs.ID, &cs.UserID, &cs.BrandKitID, &cs.Title,
		&cs.Visible, &cs.CreatedAt, &cs.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find chat session by id: %w", err)
	}
	return cs, nil
}

// CreateSession inserts a new chat session and returns it.
func (s *ChatStore) CreateSession(cs *models.ChatSession) (*models.ChatSession, error) {
	created := &models.ChatSession{}
	err := s.db.QueryRow(`
		INSERT INTO chat_sessions (user_id, brand_kit_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, brand_kit_id, title, visible, created_at, updated_at
	`, cs.UserID, cs.BrandKitID, cs.Title).Scan(
		&created.ID, &created.UserID, &created.BrandKitID, &created.Title,
		&created.Visible, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return created, nil
}

// UpdateSession modifies a session's title and visibility flag.
func (s *ChatStore) UpdateSession(cs *models.ChatSession) error {
	_, err := s.db.Exec(`
		UPDATE chat_sessions SET title = $1, visible = $2, updated_at = NOW()
		WHERE id = $3
	`, cs.Title, cs.Visible, cs.ID)
	if err != nil {
		return fmt.Errorf("update chat session: %w", err)
	}
	return nil
}

// TouchSession bumps the session's updated_at so it sorts to the top of
// the list after new activity.
func (s *ChatStore) TouchSession(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch chat session: %w", err)
	}
	return nil
}

// DeleteSession removes a session; its messages cascade.
func (s *ChatStore) DeleteSession(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	return nil
}

// ListMessages returns all messages of a session in creation order.
func (s *ChatStore) ListMessages(sessionID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, html_content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content,
			&m.HTMLContent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// LatestAssistantHTML returns the HTML of the most recent assistant turn,
// or empty string if the session has none. Used as refinement context.
func (s *ChatStore) LatestAssistantHTML(sessionID uuid.UUID) (string, error) {
	var html sql.NullString
	err := s.db.QueryRow(`
		SELECT html_content FROM chat_messages
		WHERE session_id = $1 AND role = 'assistant' AND html_content IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID).Scan(&html)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest assistant html: %w", err)
	}
	return html.String, nil
}

// CreateMessage inserts a chat message and returns it.
func (s *ChatStore) CreateMessage(m *models.ChatMessage) (*models.ChatMessage, error) {
	created := &models.ChatMessage{}
	err := s.db.QueryRow(`
		INSERT INTO chat_messages (session_id, role, content, html_content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, role, content, html_content, created_at
	`, m.SessionID, m.Role, m.Content, m.HTMLContent).Scan(
		&created.ID, &created.SessionID, &created.Role, &created.Content,
		&created.HTMLContent, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create chat message: %w", err)
	}
	return created, nil
}
