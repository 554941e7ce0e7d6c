// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"capsule/internal/mailer"
	"capsule/internal/models"
	"capsule/internal/store"
)

// Emails handles saved email CRUD and the send endpoint.
type Emails struct {
	emails *store.EmailStore
	usage  *store.UsageStore
	sender mailer.Sender
	from   string
	limits PlanLimits
}

func NewEmails(emails *store.EmailStore, usage *store.UsageStore, sender mailer.Sender, from string, limits PlanLimits) *Emails {
	return &Emails{emails: emails, usage: usage, sender: sender, from: from, limits: limits}
}

func (h *Emails) ownedEmail(w http.ResponseWriter, r *http.Request) *models.Email {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email id")
		return nil
	}

	e, err := h.emails.FindByID(id)
	if err != nil {
		slog.Error("email lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return nil
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "email not found")
		return nil
	}
	if e.UserID != currentSession(r).UserID {
		writeError(w, http.StatusForbidden, "not your email")
		return nil
	}
	return e
}

// List handles GET /api/emails.
func (h *Emails) List(w http.ResponseWriter, r *http.Request) {
	emails, err := h.emails.ListByUser(currentSession(r).UserID)
	if err != nil {
		slog.Error("email list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, emails)
}

// Get handles GET /api/emails/{id}.
func (h *Emails) Get(w http.ResponseWriter, r *http.Request) {
	e := h.ownedEmail(w, r)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Create handles POST /api/emails (saving a draft from the chat view).
func (h *Emails) Create(w http.ResponseWriter, r *http.Request) {
	var e models.Email
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(e.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if strings.TrimSpace(e.HTMLContent) == "" {
		writeError(w, http.StatusBadRequest, "html_content is required")
		return
	}

	e.UserID = currentSession(r).UserID
	created, err := h.emails.Create(&e)
	if err != nil {
		slog.Error("email create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/emails/{id}.
func (h *Emails) Update(w http.ResponseWriter, r *http.Request) {
	e := h.ownedEmail(w, r)
	if e == nil {
		return
	}

	var in models.Email
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in.ID = e.ID
	in.UserID = e.UserID
	if err := h.emails.Update(&in); err != nil {
		slog.Error("email update failed", "id", e.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// Delete handles DELETE /api/emails/{id}.
func (h *Emails) Delete(w http.ResponseWriter, r *http.Request) {
	e := h.ownedEmail(w, r)
	if e == nil {
		return
	}
	if err := h.emails.Delete(e.ID); err != nil {
		slog.Error("email delete failed", "id", e.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
}

// Send handles POST /api/emails/{id}/send. The daily counter is
// advanced atomically before anything reaches the mail API, so the
// ceiling is a hard guarantee: at the limit, no send call happens.
func (h *Emails) Send(w http.ResponseWriter, r *http.Request) {
	e := h.ownedEmail(w, r)
	if e == nil {
		return
	}

	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := mail.ParseAddress(req.To); err != nil {
		writeError(w, http.StatusBadRequest, "to must be a valid email address")
		return
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = e.Subject
	}
	if subject == "" {
		subject = e.Title
	}

	sess := currentSession(r)
	ceiling := h.limits.sendsPerDay(sess.Plan)
	if err := h.usage.Increment(sess.UserID, models.UsageSendDaily, ceiling); err != nil {
		if errors.Is(err, store.ErrLimitExceeded) {
			reset := models.UsageSendDaily.PeriodReset(time.Now())
			writeError(w, http.StatusTooManyRequests,
				fmt.Sprintf("daily send limit of %d reached, resets %s", ceiling, reset.Format(time.RFC3339)))
			return
		}
		slog.Error("usage increment failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "limit check failed")
		return
	}

	if err := h.sender.Send(r.Context(), h.from, req.To, subject, e.HTMLContent); err != nil {
		slog.Error("email send failed", "id", e.ID, "error", err)
		writeError(w, http.StatusBadGateway, "send failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
