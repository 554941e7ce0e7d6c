// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageKind names a metered operation.
type UsageKind string

const (
	// UsageChatMonthly counts email generations, reset monthly.
	UsageChatMonthly UsageKind = "chat_monthly"
	// UsageSendDaily counts outbound email sends, reset daily.
	UsageSendDaily UsageKind = "send_daily"
)

// UsageCounter is one (user, kind, period) usage row. The count is only
// ever advanced through an atomic increment-with-ceiling update, so the
// configured limit is a hard guarantee even under concurrent requests.
type UsageCounter struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Kind        UsageKind `json:"kind"`
	PeriodStart time.Time `json:"period_start"`
	Count       int       `json:"count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PeriodStart returns the UTC start of the current period for the kind:
// midnight today for daily counters, first of the month for monthly ones.
func (k UsageKind) PeriodStart(now time.Time) time.Time {
	now = now.UTC()
	if k == UsageSendDaily {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodReset returns when the current period's counter resets.
func (k UsageKind) PeriodReset(now time.Time) time.Time {
	start := k.PeriodStart(now)
	if k == UsageSendDaily {
		return start.AddDate(0, 0, 1)
	}
	return start.AddDate(0, 1, 0)
}
