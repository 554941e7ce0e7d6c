// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package billing handles payment-provider webhooks and checkout
// creation. The local subscriptions table mirrors provider state; the
// webhook is the only writer.
package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"capsule/internal/models"
	"capsule/internal/store"
)

// Webhook event names the provider delivers.
const (
	EventSubscriptionCreated   = "subscription_created"
	EventSubscriptionUpdated   = "subscription_updated"
	EventSubscriptionCancelled = "subscription_cancelled"
)

// Event is one provider webhook payload. UserID comes back through the
// custom data we attach at checkout time.
type Event struct {
	Name string    `json:"event_name"`
	Data EventData `json:"data"`
}

type EventData struct {
	SubscriptionID string     `json:"subscription_id"`
	UserID         string     `json:"user_id"`
	Plan           string     `json:"plan"`
	Status         string     `json:"status"`
	RenewsAt       *time.Time `json:"renews_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
}

// VerifySignature checks an HMAC-SHA256 hex signature over the raw
// request body. Constant-time comparison.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}

// Sign produces the hex signature for a body; used by tests and the
// local dev event sender.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("billing: parse event: %w", err)
	}
	if ev.Name == "" {
		return nil, fmt.Errorf("billing: event has no name")
	}
	return &ev, nil
}

// Service applies webhook events to the local subscription mirror and
// keeps the user's plan column in sync.
type Service struct {
	subs  *store.SubscriptionStore
	users *store.UserStore
}

func NewService(subs *store.SubscriptionStore, users *store.UserStore) *Service {
	return &Service{subs: subs, users: users}
}

// Process applies one event. Unknown event names are ignored with a log
// line so new provider events never break delivery.
func (s *Service) Process(ev *Event) error {
	switch ev.Name {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionCancelled:
	default:
		slog.Info("ignoring unhandled webhook event", "event", ev.Name)
		return nil
	}

	userID, err := uuid.Parse(ev.Data.UserID)
	if err != nil {
		return fmt.Errorf("billing: bad user id %q: %w", ev.Data.UserID, err)
	}

	status := models.SubscriptionStatus(ev.Data.Status)
	if ev.Name == EventSubscriptionCancelled {
		status = models.SubscriptionCancelled
	}

	plan := models.Plan(ev.Data.Plan)
	if plan == "" {
		plan = models.PlanPro
	}

	sub, err := s.subs.Upsert(&models.Subscription{
		UserID:        userID,
		ProviderSubID: ev.Data.SubscriptionID,
		Plan:          plan,
		Status:        status,
		RenewsAt:      ev.Data.RenewsAt,
		EndsAt:        ev.Data.EndsAt,
	})
	if err != nil {
		return fmt.Errorf("billing: upsert subscription: %w", err)
	}

	// The plan column is what limit checks read; entitlement drives it.
	userPlan := models.PlanFree
	if sub.Entitled() {
		userPlan = sub.Plan
	}
	if err := s.users.UpdatePlan(userID, userPlan); err != nil {
		return fmt.Errorf("billing: update user plan: %w", err)
	}

	slog.Info("subscription event processed",
		"event", ev.Name, "user_id", userID, "status", status, "plan", userPlan)
	return nil
}
