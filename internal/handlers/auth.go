// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"capsule/internal/session"
	"capsule/internal/store"
)

// Auth exchanges a verified identity from the external auth provider for
// a local session. Identity verification itself happens upstream; this
// endpoint is the thin seam that mirrors the user and issues the token.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type createSessionRequest struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
}

// CreateSession handles POST /api/auth/session. The user row is created
// on first login.
func (a *Auth) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	req.Email = strings.TrimSpace(req.Email)
	if req.ExternalID == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "external_id and email are required")
		return
	}

	user, err := a.users.FindOrCreate(req.ExternalID, req.Email)
	if err != nil {
		slog.Error("user lookup failed", "external_id", req.ExternalID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	token, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Plan:   user.Plan,
	})
	if err != nil {
		slog.Error("session create failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  user,
	})
}

// DeleteSession handles DELETE /api/auth/session.
func (a *Auth) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
