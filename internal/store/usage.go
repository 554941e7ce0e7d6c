// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"capsule/internal/models"
)

// ErrLimitExceeded is returned by Increment when the usage counter has
// reached its ceiling for the current period.
var ErrLimitExceeded = errors.New("usage limit exceeded")

// UsageStore meters per-user operations against plan ceilings. The limit
// check and the increment are one conditional UPDATE, so the ceiling holds
// under concurrent requests — there is no read-then-write window.
type UsageStore struct {
	db *sql.DB
}

// NewUsageStore creates a new UsageStore.
func NewUsageStore(db *sql.DB) *UsageStore {
	return &UsageStore{db: db}
}

// Increment advances the (user, kind, current period) counter by one,
// failing with ErrLimitExceeded when the counter already sits at the
// ceiling. The counter row is created on first use of a period.
func (s *UsageStore) Increment(userID uuid.UUID, kind models.UsageKind, ceiling int) error {
	periodStart := kind.PeriodStart(time.Now())

	// Ensure the period row exists; the unique constraint makes this
	// race-safe across concurrent first calls.
	_, err := s.db.Exec(`
		INSERT INTO usage_counters (user_id, kind, period_start, count)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id, kind, period_start) DO NOTHING
	`, userID, kind, periodStart)
	if err != nil {
		return fmt.Errorf("usage ensure row: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE usage_counters
		SET count = count + 1, updated_at = NOW()
		WHERE user_id = $1 AND kind = $2 AND period_start = $3 AND count < $4
	`, userID, kind, periodStart, ceiling)
	if err != nil {
		return fmt.Errorf("usage increment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("usage rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLimitExceeded
	}
	return nil
}

// Current returns the counter value for the user's current period.
// A missing row reads as zero.
func (s *UsageStore) Current(userID uuid.UUID, kind models.UsageKind) (int, error) {
	periodStart := kind.PeriodStart(time.Now())

	var count int
	err := s.db.QueryRow(`
		SELECT count FROM usage_counters
		WHERE user_id = $1 AND kind = $2 AND period_start = $3
	`, userID, kind, periodStart).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage current: %w", err)
	}
	return count, nil
}
