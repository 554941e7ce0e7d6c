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

// SubscriptionStore mirrors payment-provider subscriptions locally.
// Webhook deliveries can arrive out of order or duplicated, so writes
// are upserts keyed on the provider's subscription ID.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore creates a new SubscriptionStore.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// FindByUser returns the user's most recently updated subscription.
// Returns nil if the user never subscribed.
func (s *SubscriptionStore) FindByUser(userID uuid.UUID) (*models.Subscription, error) {
	sub := &models.Subscription{}
	err := s.db.QueryRow(`
		SELECT id, user_id, provider_sub_id, plan, status, renews_at, ends_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID).Scan(&sub.ID, &sub.UserID, &sub.ProviderSubID, &sub.Plan,
		&sub.Status, &sub.RenewsAt, &sub.EndsAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription by user: %w", err)
	}
	return sub, nil
}

// Upsert inserts or refreshes a subscription by provider subscription ID
// and returns the stored row.
func (s *SubscriptionStore) Upsert(sub *models.Subscription) (*models.Subscription, error) {
	stored := &models.Subscription{}
	err := s.db.QueryRow(`
		INSERT INTO subscriptions (user_id, provider_sub_id, plan, status, renews_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_sub_id)
		DO UPDATE SET plan = EXCLUDED.plan, status = EXCLUDED.status,
		              renews_at = EXCLUDED.renews_at, ends_at = EXCLUDED.ends_at,
		              updated_at = NOW()
		RETURNING id, user_id, provider_sub_id, plan, status, renews_at, ends_at, created_at, updated_at
	`, sub.UserID, sub.ProviderSubID, sub.Plan, sub.Status, sub.RenewsAt, sub.EndsAt).Scan(
		&stored.ID, &stored.UserID, &stored.ProviderSubID, &stored.Plan,
		&stored.Status, &stored.RenewsAt, &stored.EndsAt, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	return stored, nil
}
