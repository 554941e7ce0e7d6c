// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandKit is the stored record of a brand's visual and textual identity.
// It is created by the website extraction pipeline or manually, and is
// owned exclusively by one user. Color fields are free-form strings —
// they are not validated as hex at write time.
type BrandKit struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	KitName        string            `json:"kit_name"`
	Website        string            `json:"website"`
	BrandSummary   string            `json:"brand_summary"`
	Address        string            `json:"address"`
	ToneOfVoice    string            `json:"tone_of_voice"`
	Copyright      string            `json:"copyright"`
	FooterText     string            `json:"footer_text"`
	Disclaimers    string            `json:"disclaimers"`
	Socials        map[string]string `json:"socials"` // platform → url
	LogoPrimaryURL string            `json:"logo_primary_url"`
	LogoIconURL    string            `json:"logo_icon_url"`

	ColorBackground string `json:"color_background"`
	ColorContainer  string `json:"color_container"`
	ColorAccent     string `json:"color_accent"`
	ColorButtonText string `json:"color_button_text"`
	ColorForeground string `json:"color_foreground"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
