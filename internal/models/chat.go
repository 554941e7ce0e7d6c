// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatSession is one iterative email-design conversation. The session
// carries the brand kit used as generation context; messages are ordered
// by creation time.
type ChatSession struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BrandKitID *uuid.UUID `json:"brand_kit_id,omitempty"`
	Title      string     `json:"title"`
	Visible    bool       `json:"visible"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ChatMessage is a single turn in a chat session. Assistant turns carry
// the generated email HTML so refinement turns can pass it back as context.
type ChatMessage struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	Role        ChatRole  `json:"role"`
	Content     string    `json:"content"`
	HTMLContent *string   `json:"html_content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
