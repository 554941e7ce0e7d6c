// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"capsule/internal/database"
	"capsule/internal/generate"
	"capsule/internal/middleware"
	"capsule/internal/models"
	"capsule/internal/session"
	"capsule/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "capsule")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "capsule")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
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

// testUser creates a throwaway user. Owned rows cascade on delete.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	externalID := "test-" + uuid.New().String()
	u, err := store.NewUserStore(db).FindOrCreate(externalID, externalID+"@test.local")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// testSession builds session data the way LoadSession would attach it.
func testSession(u *models.User) *session.Data {
	return &session.Data{
		UserID: u.ID,
		Email:  u.Email,
		Plan:   u.Plan,
	}
}

// withSession attaches session data to a request context using the
// middleware key, bypassing the session store.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withIDAndSession adds both the chi {id} URL param and session data.
func withIDAndSession(r *http.Request, id string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// testLimits mirrors the default plan ceilings.
var testLimits = PlanLimits{
	FreeChatsPerMonth: 20,
	ProChatsPerMonth:  500,
	FreeSendsPerDay:   5,
	ProSendsPerDay:    200,
}

// stubGenerator implements DraftGenerator without a model call.
type stubGenerator struct {
	mu    sync.Mutex
	calls int
	draft *generate.Draft
	err   error

	lastInstruction string
	lastKit         *models.BrandKit
	lastPrior       string
}

func (g *stubGenerator) Draft(_ context.Context, instruction string, kit *models.BrandKit, priorHTML string) (*generate.Draft, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastInstruction = instruction
	g.lastKit = kit
	g.lastPrior = priorHTML
	if g.err != nil {
		return nil, g.err
	}
	if g.draft != nil {
		return g.draft, nil
	}
	return &generate.Draft{
		Title:       "Stub email",
		Description: "A stub draft.",
		Code:        "<html><body>stub</body></html>",
	}, nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// recordingSender implements mailer.Sender and records every send.
type recordingSender struct {
	mu    sync.Mutex
	calls int
	err   error

	lastFrom    string
	lastTo      string
	lastSubject string
	lastHTML    string
}

func (s *recordingSender) Send(_ context.Context, from, to, subject, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastFrom = from
	s.lastTo = to
	s.lastSubject = subject
	s.lastHTML = html
	return s.err
}

func (s *recordingSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
