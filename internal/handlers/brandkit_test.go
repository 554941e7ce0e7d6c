// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"capsule/internal/models"
	"capsule/internal/store"
)

func newKitHandler(t *testing.T) (*BrandKits, *store.BrandKitStore, *models.User) {
	t.Helper()
	db := testDB(t)
	kits := store.NewBrandKitStore(db)
	// No scraper: CRUD paths and scrape request validation never reach it.
	h := NewBrandKits(kits, nil)
	return h, kits, testUser(t, db)
}

func TestBrandKitCreateAndGet(t *testing.T) {
	h, _, u := newKitHandler(t)

	body := `{"kit_name":"Acme","website":"https://acme.test","color_accent":"#FF5500"}`
	req := httptest.NewRequest(http.MethodPost, "/api/brand-kits", strings.NewReader(body))
	req = withSession(req, testSession(u))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.BrandKit
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.UserID != u.ID {
		t.Errorf("UserID = %v, want session user", created.UserID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/brand-kits/"+created.ID.String(), nil)
	req = withIDAndSession(req, created.ID.String(), testSession(u))
	rec = httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var got models.BrandKit
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.KitName != "Acme" || got.ColorAccent != "#FF5500" {
		t.Errorf("got kit %q / accent %q", got.KitName, got.ColorAccent)
	}
}

func TestBrandKitCreateRequiresName(t *testing.T) {
	h, _, u := newKitHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/brand-kits", strings.NewReader(`{"website":"https://x.test"}`))
	req = withSession(req, testSession(u))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBrandKitUpdatePreservesOwner(t *testing.T) {
	h, kits, u := newKitHandler(t)

	kit, err := kits.Create(&models.BrandKit{UserID: u.ID, KitName: "Before"})
	if err != nil {
		t.Fatalf("create kit: %v", err)
	}

	body := `{"kit_name":"After","tone_of_voice":"playful"}`
	req := httptest.NewRequest(http.MethodPut, "/api/brand-kits/"+kit.ID.String(), strings.NewReader(body))
	req = withIDAndSession(req, kit.ID.String(), testSession(u))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	got, err := kits.FindByID(kit.ID)
	if err != nil || got == nil {
		t.Fatalf("reload kit: %v", err)
	}
	if got.KitName != "After" || got.ToneOfVoice != "playful" {
		t.Errorf("kit = %q / %q after update", got.KitName, got.ToneOfVoice)
	}
	if got.UserID != u.ID {
		t.Error("update must not reassign ownership")
	}
}

func TestBrandKitDeleteEnforcesOwnership(t *testing.T) {
	h, kits, u := newKitHandler(t)
	db := testDB(t)
	other := testUser(t, db)

	kit, err := kits.Create(&models.BrandKit{UserID: u.ID, KitName: "Mine"})
	if err != nil {
		t.Fatalf("create kit: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/brand-kits/"+kit.ID.String(), nil)
	req = withIDAndSession(req, kit.ID.String(), testSession(other))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if got, _ := kits.FindByID(kit.ID); got == nil {
		t.Error("kit should survive a foreign delete attempt")
	}
}

func TestScrapeRejectsBadURLs(t *testing.T) {
	h, _, u := newKitHandler(t)

	cases := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "acme.test"},
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"no host", "https://"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"url": tc.url})
			req := httptest.NewRequest(http.MethodPost, "/api/brand-kits/scrape", strings.NewReader(string(body)))
			req = withSession(req, testSession(u))
			rec := httptest.NewRecorder()
			h.Scrape(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
