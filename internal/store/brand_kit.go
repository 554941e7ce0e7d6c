// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"capsule/internal/models"
)

// BrandKitStore handles all brand-kit database operations. Socials are
// stored as a JSONB column and marshalled at this boundary.
type BrandKitStore struct {
	db *sql.DB
}

// NewBrandKitStore creates a new BrandKitStore with the given database connection.
func NewBrandKitStore(db *sql.DB) *BrandKitStore {
	return &BrandKitStore{db: db}
}

const brandKitColumns = `id, user_id, kit_name, website, brand_summary, address,
       tone_of_voice, copyright, footer_text, disclaimers, socials,
       logo_primary_url, logo_icon_url,
       color_background, color_container, color_accent,
       color_button_text, color_foreground,
       created_at, updated_at`

// scanBrandKit scans one brand kit row, decoding the socials JSONB payload.
func scanBrandKit(row interface{ Scan(...any) error }) (*models.BrandKit, error) {
	k := &models.BrandKit{}
	var socials []byte
	err := row.Scan(
		&k.ID, &k.UserID, &k.KitName, &k.Website, &k.BrandSummary, &k.Address,
		&k.ToneOfVoice, &k.Copyright, &k.FooterText, &k.Disclaimers, &socials,
		&k.LogoPrimaryURL, &k.LogoIconURL,
		&k.ColorBackground, &k.ColorContainer, &k.ColorAccent,
		&k.ColorButtonText, &k.ColorForeground,
		&k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(socials) > 0 {
		if err := json.Unmarshal(socials, &k.Socials); err != nil {
			return nil, fmt.Errorf("decode socials: %w", err)
		}
	}
	if k.Socials == nil {
		k.Socials = map[string]string{}
	}
	return k, nil
}

// ListByUser returns all brand kits owned by a user, newest first.
func (s *BrandKitStore) ListByUser(userID uuid.UUID) ([]models.BrandKit, error) {
	rows, err := s.db.Query(`
		SELECT `+brandKitColumns+`
		FROM brand_kits
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list brand kits: %w", err)
	}
	defer rows.Close()

	var kits []models.BrandKit
	for rows.Next() {
		k, err := scanBrandKit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand kit: %w", err)
		}
		kits = append(kits, *k)
	}
	return kits, rows.Err()
}

// FindByID retrieves a brand kit by its UUID. Returns nil if not found.
func (s *BrandKitStore) FindByID(id uuid.UUID) (*models.BrandKit, error) {
	k, err := scanBrandKit(s.db.QueryRow(`
		SELECT `+brandKitColumns+` FROM brand_kits WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand kit by id: %w", err)
	}
	return k, nil
}

// Create inserts a new brand kit and returns it with generated fields.
func (s *BrandKitStore) Create(k *models.BrandKit) (*models.BrandKit, error) {
	socials, err := json.Marshal(orEmpty(k.Socials))
	if err != nil {
		return nil, fmt.Errorf("encode socials: %w", err)
	}

	created, err := scanBrandKit(s.db.QueryRow(`
		INSERT INTO brand_kits (user_id, kit_name, website, brand_summary, address,
		                        tone_of_voice, copyright, footer_text, disclaimers, socials,
		                        logo_primary_url, logo_icon_url,
		                        color_background, color_container, color_accent,
		                        color_button_text, color_foreground)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+brandKitColumns+`
	`, k.UserID, k.KitName, k.Website, k.BrandSummary, k.Address,
		k.ToneOfVoice, k.Copyright, k.FooterText, k.Disclaimers, socials,
		k.LogoPrimaryURL, k.LogoIconURL,
		k.ColorBackground, k.ColorContainer, k.ColorAccent,
		k.ColorButtonText, k.ColorForeground,
	))
	if err != nil {
		return nil, fmt.Errorf("create brand kit: %w", err)
	}
	return created, nil
}

// Update replaces an existing brand kit record in full. The editor UI
// always submits the complete record; last write wins.
func (s *BrandKitStore) Update(k *models.BrandKit) error {
	socials, err := json.Marshal(orEmpty(k.Socials))
	if err != nil {
		return fmt.Errorf("encode socials: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE brand_kits SET
			kit_name = $1, website = $2, brand_summary = $3, address = $4,
			tone_of_voice = $5, copyright = $6, footer_text = $7, disclaimers = $8,
			socials = $9, logo_primary_url = $10, logo_icon_url = $11,
			color_background = $12, color_container = $13, color_accent = $14,
			color_button_text = $15, color_foreground = $16,
			updated_at = NOW()
		WHERE id = $17
	`, k.KitName, k.Website, k.BrandSummary, k.Address,
		k.ToneOfVoice, k.Copyright, k.FooterText, k.Disclaimers,
		socials, k.LogoPrimaryURL, k.LogoIconURL,
		k.ColorBackground, k.ColorContainer, k.ColorAccent,
		k.ColorButtonText, k.ColorForeground, k.ID,
	)
	if err != nil {
		return fmt.Errorf("update brand kit: %w", err)
	}
	return nil
}

// Delete removes a brand kit by ID.
func (s *BrandKitStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM brand_kits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand kit: %w", err)
	}
	return nil
}

// orEmpty never marshals a nil map — the column default is '{}'.
func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
