// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"capsule/internal/generate"
	"capsule/internal/models"
	"capsule/internal/store"
)

// DraftGenerator is the generation contract the chat handler depends
// on; satisfied by *generate.Generator.
type DraftGenerator interface {
	Draft(ctx context.Context, instruction string, kit *models.BrandKit, priorHTML string) (*generate.Draft, error)
}

// PlanLimits carries the per-plan usage ceilings.
type PlanLimits struct {
	FreeChatsPerMonth int
	ProChatsPerMonth  int
	FreeSendsPerDay   int
	ProSendsPerDay    int
}

func (l PlanLimits) chatsPerMonth(plan models.Plan) int {
	if plan == models.PlanPro {
		return l.ProChatsPerMonth
	}
	return l.FreeChatsPerMonth
}

func (l PlanLimits) sendsPerDay(plan models.Plan) int {
	if plan == models.PlanPro {
		return l.ProSendsPerDay
	}
	return l.FreeSendsPerDay
}

// Chats handles the chat session endpoints and the message endpoint
// that generates email drafts.
type Chats struct {
	chats  *store.ChatStore
	kits   *store.BrandKitStore
	usage  *store.UsageStore
	gen    DraftGenerator
	limits PlanLimits
}

func NewChats(chats *store.ChatStore, kits *store.BrandKitStore, usage *store.UsageStore, gen DraftGenerator, limits PlanLimits) *Chats {
	return &Chats{chats: chats, kits: kits, usage: usage, gen: gen, limits: limits}
}

func (h *Chats) ownedSession(w http.ResponseWriter, r *http.Request) *models.ChatSession {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return nil
	}

	cs, err := h.chats.FindSessionByID(id)
	if err != nil {
		slog.Error("chat lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return nil
	}
	if cs == nil {
		writeError(w, http.StatusNotFound, "chat not found")
		return nil
	}
	if cs.UserID != currentSession(r).UserID {
		writeError(w, http.StatusForbidden, "not your chat")
		return nil
	}
	return cs
}

// List handles GET /api/chats (visible sessions only).
func (h *Chats) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chats.ListSessionsByUser(currentSession(r).UserID)
	if err != nil {
		slog.Error("chat list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

type createChatRequest struct {
	Title      string `json:"title"`
	BrandKitID string `json:"brand_kit_id"`
}

// Create handles POST /api/chats.
func (h *Chats) Create(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cs := &models.ChatSession{
		UserID:  currentSession(r).UserID,
		Title:   strings.TrimSpace(req.Title),
		Visible: true,
	}
	if cs.Title == "" {
		cs.Title = "New email"
	}

	if req.BrandKitID != "" {
		kitID, err := uuid.Parse(req.BrandKitID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid brand_kit_id")
			return
		}
		kit, err := h.kits.FindByID(kitID)
		if err != nil || kit == nil || kit.UserID != cs.UserID {
			writeError(w, http.StatusBadRequest, "unknown brand_kit_id")
			return
		}
		cs.BrandKitID = &kitID
	}

	created, err := h.chats.CreateSession(cs)
	if err != nil {
		slog.Error("chat create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/chats/{id}: the session plus its messages.
func (h *Chats) Get(w http.ResponseWriter, r *http.Request) {
	cs := h.ownedSession(w, r)
	if cs == nil {
		return
	}

	messages, err := h.chats.ListMessages(cs.ID)
	if err != nil {
		slog.Error("chat messages load failed", "id", cs.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "load failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":  cs,
		"messages": messages,
	})
}

type patchChatRequest struct {
	Title   *string `json:"title"`
	Visible *bool   `json:"visible"`
}

// Patch handles PATCH /api/chats/{id} (rename, hide).
func (h *Chats) Patch(w http.ResponseWriter, r *http.Request) {
	cs := h.ownedSession(w, r)
	if cs == nil {
		return
	}

	var req patchChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		cs.Title = strings.TrimSpace(*req.Title)
	}
	if req.Visible != nil {
		cs.Visible = *req.Visible
	}

	if err := h.chats.UpdateSession(cs); err != nil {
		slog.Error("chat update failed", "id", cs.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// Delete handles DELETE /api/chats/{id}.
func (h *Chats) Delete(w http.ResponseWriter, r *http.Request) {
	cs := h.ownedSession(w, r)
	if cs == nil {
		return
	}
	if err := h.chats.DeleteSession(cs.ID); err != nil {
		slog.Error("chat delete failed", "id", cs.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type postMessageRequest struct {
	Instruction string `json:"instruction"`
}

// PostMessage handles POST /api/chats/{id}/messages: counts the turn
// against the monthly limit, generates a draft with the session's brand
// kit and the prior revision as context, and persists both turns.
func (h *Chats) PostMessage(w http.ResponseWriter, r *http.Request) {
	cs := h.ownedSession(w, r)
	if cs == nil {
		return
	}

	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Instruction = strings.TrimSpace(req.Instruction)
	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	// The increment is atomic with the ceiling check, so the monthly
	// limit holds even under concurrent requests.
	sess := currentSession(r)
	ceiling := h.limits.chatsPerMonth(sess.Plan)
	if err := h.usage.Increment(sess.UserID, models.UsageChatMonthly, ceiling); err != nil {
		if errors.Is(err, store.ErrLimitExceeded) {
			reset := models.UsageChatMonthly.PeriodReset(time.Now())
			writeError(w, http.StatusTooManyRequests,
				fmt.Sprintf("monthly generation limit of %d reached, resets %s", ceiling, reset.Format("2006-01-02")))
			return
		}
		slog.Error("usage increment failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "limit check failed")
		return
	}

	var kit *models.BrandKit
	if cs.BrandKitID != nil {
		k, err := h.kits.FindByID(*cs.BrandKitID)
		if err != nil {
			slog.Error("brand kit load failed", "id", *cs.BrandKitID, "error", err)
			writeError(w, http.StatusInternalServerError, "brand kit load failed")
			return
		}
		kit = k
	}

	priorHTML, err := h.chats.LatestAssistantHTML(cs.ID)
	if err != nil {
		slog.Error("prior html load failed", "id", cs.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "load failed")
		return
	}

	draft, err := h.gen.Draft(r.Context(), req.Instruction, kit, priorHTML)
	if err != nil {
		slog.Error("draft generation failed", "chat_id", cs.ID, "error", err)
		writeError(w, http.StatusBadGateway, "generation failed")
		return
	}

	if _, err := h.chats.CreateMessage(&models.ChatMessage{
		SessionID: cs.ID,
		Role:      models.ChatRoleUser,
		Content:   req.Instruction,
	}); err != nil {
		slog.Error("message persist failed", "chat_id", cs.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "persist failed")
		return
	}

	assistant, err := h.chats.CreateMessage(&models.ChatMessage{
		SessionID:   cs.ID,
		Role:        models.ChatRoleAssistant,
		Content:     draft.Description,
		HTMLContent: &draft.Code,
	})
	if err != nil {
		slog.Error("message persist failed", "chat_id", cs.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "persist failed")
		return
	}

	if err := h.chats.TouchSession(cs.ID); err != nil {
		slog.Warn("chat touch failed", "id", cs.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": assistant,
		"draft":   draft,
	})
}
