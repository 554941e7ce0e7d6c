// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"capsule/internal/models"
	"capsule/internal/scrape"
	"capsule/internal/store"
)

// BrandKits handles the brand kit CRUD endpoints plus the scrape
// endpoint that runs the full extraction pipeline.
type BrandKits struct {
	kits    *store.BrandKitStore
	scraper *scrape.Service
}

func NewBrandKits(kits *store.BrandKitStore, scraper *scrape.Service) *BrandKits {
	return &BrandKits{kits: kits, scraper: scraper}
}

// ownedKit loads a kit and enforces ownership: 404 when missing, 403
// when owned by someone else. Returns nil after writing the response.
func (h *BrandKits) ownedKit(w http.ResponseWriter, r *http.Request) *models.BrandKit {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid brand kit id")
		return nil
	}

	kit, err := h.kits.FindByID(id)
	if err != nil {
		slog.Error("brand kit lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return nil
	}
	if kit == nil {
		writeError(w, http.StatusNotFound, "brand kit not found")
		return nil
	}
	if kit.UserID != currentSession(r).UserID {
		writeError(w, http.StatusForbidden, "not your brand kit")
		return nil
	}
	return kit
}

// List handles GET /api/brand-kits.
func (h *BrandKits) List(w http.ResponseWriter, r *http.Request) {
	kits, err := h.kits.ListByUser(currentSession(r).UserID)
	if err != nil {
		slog.Error("brand kit list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, kits)
}

// Get handles GET /api/brand-kits/{id}.
func (h *BrandKits) Get(w http.ResponseWriter, r *http.Request) {
	kit := h.ownedKit(w, r)
	if kit == nil {
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

// Create handles POST /api/brand-kits (manual creation, no scrape).
func (h *BrandKits) Create(w http.ResponseWriter, r *http.Request) {
	var kit models.BrandKit
	if err := decodeJSON(r, &kit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(kit.KitName) == "" {
		writeError(w, http.StatusBadRequest, "kit_name is required")
		return
	}

	kit.UserID = currentSession(r).UserID
	created, err := h.kits.Create(&kit)
	if err != nil {
		slog.Error("brand kit create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/brand-kits/{id} as a full-record replace,
// matching the editor UI's save behavior.
func (h *BrandKits) Update(w http.ResponseWriter, r *http.Request) {
	kit := h.ownedKit(w, r)
	if kit == nil {
		return
	}

	var in models.BrandKit
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in.ID = kit.ID
	in.UserID = kit.UserID
	if err := h.kits.Update(&in); err != nil {
		slog.Error("brand kit update failed", "id", kit.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// Delete handles DELETE /api/brand-kits/{id}.
func (h *BrandKits) Delete(w http.ResponseWriter, r *http.Request) {
	kit := h.ownedKit(w, r)
	if kit == nil {
		return
	}
	if err := h.kits.Delete(kit.ID); err != nil {
		slog.Error("brand kit delete failed", "id", kit.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type scrapeRequest struct {
	URL     string `json:"url"`
	KitName string `json:"kit_name"`
}

// Scrape handles POST /api/brand-kits/scrape: runs the extraction
// pipeline against the URL and persists the resulting kit.
func (h *BrandKits) Scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be a valid http(s) URL")
		return
	}

	kit, err := h.scraper.Scrape(r.Context(), currentSession(r).UserID, target.String(), strings.TrimSpace(req.KitName))
	if err != nil {
		slog.Error("scrape failed", "url", target.String(), "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch site info")
		return
	}

	created, err := h.kits.Create(kit)
	if err != nil {
		slog.Error("brand kit create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
