// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the PostgreSQL data access layer. Each model has
// its own store type wrapping a shared *sql.DB. Lookups return (nil, nil)
// when no row matches — callers decide whether that is a 404.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"capsule/internal/models"
)

// UserStore handles user rows mirrored from the external auth provider.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID retrieves a user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`
		SELECT id, external_id, email, plan, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Plan, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByExternalID retrieves a user by the auth provider's subject ID.
// Returns nil if not found.
func (s *UserStore) FindByExternalID(externalID string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`
		SELECT id, external_id, email, plan, created_at, updated_at
		FROM users WHERE external_id = $1
	`, externalID).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Plan, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by external id: %w", err)
	}
	return u, nil
}

// FindOrCreate returns the user for an external identity, creating the
// local mirror row on first sight. The email is refreshed on every call
// so provider-side address changes propagate.
func (s *UserStore) FindOrCreate(externalID, email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`
		INSERT INTO users (external_id, email)
		VALUES ($1, $2)
		ON CONFLICT (external_id)
		DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING id, external_id, email, plan, created_at, updated_at
	`, externalID, email).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Plan, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return u, nil
}

// UpdatePlan sets the user's plan. Called from the billing webhook path.
func (s *UserStore) UpdatePlan(id uuid.UUID, plan models.Plan) error {
	_, err := s.db.Exec(`
		UPDATE users SET plan = $1, updated_at = NOW() WHERE id = $2
	`, plan, id)
	if err != nil {
		return fmt.Errorf("update user plan: %w", err)
	}
	return nil
}
