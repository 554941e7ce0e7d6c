// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus mirrors the payment provider's subscription states.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription is the local mirror of a payment-provider subscription,
// kept in sync by webhook events. ProviderSubID is the provider's own
// subscription identifier and is unique per row.
type Subscription struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	ProviderSubID string             `json:"provider_sub_id"`
	Plan          Plan               `json:"plan"`
	Status        SubscriptionStatus `json:"status"`
	RenewsAt      *time.Time         `json:"renews_at,omitempty"`
	EndsAt        *time.Time         `json:"ends_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Entitled returns true if the subscription grants paid features.
func (s *Subscription) Entitled() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionPastDue
}
