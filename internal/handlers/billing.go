// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"capsule/internal/billing"
)

// Billing handles checkout creation and the payment provider webhook.
type Billing struct {
	svc           *billing.Service
	checkout      *billing.CheckoutClient
	signingSecret string
	proVariantID  string
}

func NewBilling(svc *billing.Service, checkout *billing.CheckoutClient, signingSecret, proVariantID string) *Billing {
	return &Billing{
		svc:           svc,
		checkout:      checkout,
		signingSecret: signingSecret,
		proVariantID:  proVariantID,
	}
}

// CreateCheckout handles POST /api/checkout: returns the provider's
// hosted checkout URL for the pro plan.
func (h *Billing) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	url, err := h.checkout.Create(r.Context(), sess.UserID, sess.Email, h.proVariantID)
	if err != nil {
		slog.Error("checkout create failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusBadGateway, "checkout unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook handles POST /webhooks/payments. A bad signature gets a 401
// (sender misconfiguration); once the signature verifies, the endpoint
// always answers 200 — processing failures are logged, never surfaced,
// so the provider does not enter a retry storm.
func (h *Billing) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	sig := r.Header.Get("X-Signature")
	if !billing.VerifySignature(h.signingSecret, body, sig) {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	ev, err := billing.ParseEvent(body)
	if err != nil {
		slog.Error("webhook parse failed", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.svc.Process(ev); err != nil {
		slog.Error("webhook processing failed", "event", ev.Name, "error", err)
	}

	w.WriteHeader(http.StatusOK)
}
