// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Capsule API. Routes are grouped by resource; the scrape and message
// endpoints additionally sit behind a per-IP rate limiter because both
// are expensive upstream calls.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"capsule/internal/handlers"
	"capsule/internal/middleware"
	"capsule/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, kits *handlers.BrandKits, chats *handlers.Chats, emails *handlers.Emails, billing *handlers.Billing) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Webhooks — authenticated by signature, not session.
	r.Post("/webhooks/payments", billing.Webhook)

	r.Route("/api", func(r chi.Router) {
		// Session exchange — the only unauthenticated API call.
		r.Post("/auth/session", auth.CreateSession)
		r.Delete("/auth/session", auth.DeleteSession)

		// Everything below needs a user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			// Scrape and generation hit headless browsers and model
			// APIs; rate-limit them separately from plain CRUD.
			heavy := middleware.NewRateLimiter(10, time.Minute)

			r.Route("/brand-kits", func(r chi.Router) {
				r.Get("/", kits.List)
				r.Post("/", kits.Create)
				r.With(heavy.Middleware).Post("/scrape", kits.Scrape)
				r.Get("/{id}", kits.Get)
				r.Put("/{id}", kits.Update)
				r.Delete("/{id}", kits.Delete)
			})

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", chats.List)
				r.Post("/", chats.Create)
				r.Get("/{id}", chats.Get)
				r.Patch("/{id}", chats.Patch)
				r.Delete("/{id}", chats.Delete)
				r.With(heavy.Middleware).Post("/{id}/messages", chats.PostMessage)
			})

			r.Route("/emails", func(r chi.Router) {
				r.Get("/", emails.List)
				r.Post("/", emails.Create)
				r.Get("/{id}", emails.Get)
				r.Put("/{id}", emails.Update)
				r.Delete("/{id}", emails.Delete)
				r.Post("/{id}/send", emails.Send)
			})

			r.Post("/checkout", billing.CreateCheckout)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
