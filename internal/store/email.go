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

// EmailStore handles saved email templates.
type EmailStore struct {
	db *sql.DB
}

// NewEmailStore creates a new EmailStore with the given database connection.
func NewEmailStore(db *sql.DB) *EmailStore {
	return &EmailStore{db: db}
}

// ListByUser returns a user's saved emails, newest first.
func (s *EmailStore) ListByUser(userID uuid.UUID) ([]models.Email, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, brand_kit_id, title, subject, html_content, created_at, updated_at
		FROM emails
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var emails []models.Email
	for rows.Next() {
		var e models.Email
		if err := rows.Scan(&e.ID, &e.UserID, &e.BrandKitID, &e.Title,
			&e.Subject, &e.HTMLContent, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// FindByID retrieves an email by UUID. Returns nil if not found.
func (s *EmailStore) FindByID(id uuid.UUID) (*models.Email, error) {
	e := &models.Email{}
	err := s.db.QueryRow(`
		SELECT id, user_id, brand_kit_id, title, subject, html_content, created_at, updated_at
		FROM emails WHERE id = $1
	`, id).Scan(&e.ID, &e.UserID, &e.BrandKitID, &e.Title,
		&e.Subject, &e.HTMLContent, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find email by id: %w", err)
	}
	return e, nil
}

// Create inserts a new email and returns it.
func (s *EmailStore) Create(e *models.Email) (*models.Email, error) {
	created := &models.Email{}
	err := s.db.QueryRow(`
		INSERT INTO emails (user_id, brand_kit_id, title, subject, html_content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, brand_kit_id, title, subject, html_content, created_at, updated_at
	`, e.UserID, e.BrandKitID, e.Title, e.Subject, e.HTMLContent).Scan(
		&created.ID, &created.UserID, &created.BrandKitID, &created.Title,
		&created.Subject, &created.HTMLContent, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create email: %w", err)
	}
	return created, nil
}

// Update modifies an existing email.
func (s *EmailStore) Update(e *models.Email) error {
	_, err := s.db.Exec(`
		UPDATE emails SET title = $1, subject = $2, html_content = $3, updated_at = NOW()
		WHERE id = $4
	`, e.Title, e.Subject, e.HTMLContent, e.ID)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	return nil
}

// Delete removes an email by ID.
func (s *EmailStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM emails WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	return nil
}
