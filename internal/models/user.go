// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared between the stores,
// handlers, and services. Authentication itself is delegated to an external
// identity provider — users are mirrored here by their external ID.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// User mirrors an account from the external auth provider. The ExternalID
// is the provider's stable subject identifier.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Plan       Plan      `json:"plan"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsPro returns true if the user is on a paid plan.
func (u *User) IsPro() bool {
	return u.Plan == PlanPro
}
