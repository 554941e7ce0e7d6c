// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data.
// It creates a demo user with a sample brand kit if no users exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var userID string
	err := db.QueryRow(`
		INSERT INTO users (external_id, email, plan)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "dev-user", "demo@capsule.local", "free").Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO brand_kits (user_id, kit_name, website, brand_summary,
		                        tone_of_voice, copyright,
		                        color_background, color_container, color_accent,
		                        color_button_text, color_foreground, socials)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, userID, "Capsule Demo", "https://capsule.email",
		"Capsule turns any website into on-brand email templates.",
		"professional", "© 2026 Capsule",
		"#FFFFFF", "#F5F5F5", "#4F46E5", "#FFFFFF", "#111111",
		`{"x": "https://x.com/capsule"}`)
	if err != nil {
		return fmt.Errorf("seed insert brand kit: %w", err)
	}

	slog.Info("database seeded with demo user and brand kit",
		"email", "demo@capsule.local",
	)

	return nil
}
