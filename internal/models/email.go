// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Email is a saved email template. HTMLContent is stored as generated —
// no semantic validation is performed on it.
type Email struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	BrandKitID  *uuid.UUID `json:"brand_kit_id,omitempty"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	HTMLContent string     `json:"html_content"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
