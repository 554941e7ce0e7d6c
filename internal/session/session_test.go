// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"capsule/internal/models"
)

func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestSessionCookieFlow(t *testing.T) {
	store := NewStore(testValkeyClient(t))
	ctx := context.Background()

	w := httptest.NewRecorder()
	userID := uuid.New()

	token, err := store.Create(ctx, w, &Data{UserID: userID, Email: "u@example.com", Plan: models.PlanFree})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d", len(token))
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])

	data, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data == nil || data.UserID != userID || data.Email != "u@example.com" {
		t.Errorf("session data = %+v", data)
	}
}

func TestSessionBearerToken(t *testing.T) {
	store := NewStore(testValkeyClient(t))
	ctx := context.Background()

	token, err := store.Create(ctx, httptest.NewRecorder(), &Data{UserID: uuid.New(), Plan: models.PlanPro})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	data, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data == nil || data.Plan != models.PlanPro {
		t.Errorf("session data = %+v", data)
	}
}

func TestSessionMissing(t *testing.T) {
	store := NewStore(testValkeyClient(t))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil session, got %+v", data)
	}

	// Unknown token behaves the same as no token.
	r.Header.Set("Authorization", "Bearer deadbeef")
	data, err = store.Get(context.Background(), r)
	if err != nil || data != nil {
		t.Errorf("unknown token: data=%+v err=%v", data, err)
	}
}

func TestSessionDestroy(t *testing.T) {
	store := NewStore(testValkeyClient(t))
	ctx := context.Background()

	token, err := store.Create(ctx, httptest.NewRecorder(), &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodDelete, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	if err := store.Destroy(ctx, w, r); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	data, err := store.Get(ctx, r)
	if err != nil || data != nil {
		t.Errorf("session should be gone: data=%+v err=%v", data, err)
	}
}

func TestTokenFromRequestPrecedence(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})

	if got := TokenFromRequest(r); got != "header-token" {
		t.Errorf("bearer header should win, got %q", got)
	}
}
