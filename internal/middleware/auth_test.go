// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"capsule/internal/models"
	"capsule/internal/session"
)

func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	var called bool
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/brand-kits", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if called {
		t.Error("inner handler should not run without a session")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error"`) {
		t.Errorf("expected JSON error envelope, got %s", rr.Body.String())
	}
}

func TestRequireUserPassesAuthenticated(t *testing.T) {
	var called bool
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	sess := &session.Data{UserID: uuid.New(), Email: "u@example.com", Plan: models.PlanFree}
	req := httptest.NewRequest(http.MethodGet, "/api/brand-kits", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Error("inner handler should run with a session")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestSessionFromCtx(t *testing.T) {
	if got := SessionFromCtx(context.Background()); got != nil {
		t.Errorf("empty context should yield nil, got %+v", got)
	}

	sess := &session.Data{UserID: uuid.New()}
	ctx := ctxWithSession(context.Background(), sess)
	if got := SessionFromCtx(ctx); got != sess {
		t.Errorf("got %+v, want %+v", got, sess)
	}
}
