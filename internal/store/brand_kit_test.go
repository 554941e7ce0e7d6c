// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"capsule/internal/models"
)

func TestBrandKitCRUD(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	s := NewBrandKitStore(db)

	created, err := s.Create(&models.BrandKit{
		UserID:          user.ID,
		KitName:         "Acme",
		Website:         "https://acme.example",
		ToneOfVoice:     "professional",
		Copyright:       "© 2024 Acme Inc.",
		Socials:         map[string]string{"x": "https://x.com/acme"},
		ColorBackground: "#FFFFFF",
		ColorAccent:     "#FF0000",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}
	if created.Socials["x"] != "https://x.com/acme" {
		t.Errorf("socials not round-tripped: %v", created.Socials)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || found.KitName != "Acme" {
		t.Fatalf("FindByID returned %+v", found)
	}

	found.KitName = "Acme Rebrand"
	found.ColorAccent = "#00FF00"
	if err := s.Update(found); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after update failed: %v", err)
	}
	if updated.KitName != "Acme Rebrand" || updated.ColorAccent != "#00FF00" {
		t.Errorf("update not applied: %+v", updated)
	}

	kits, err := s.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(kits) != 1 {
		t.Errorf("expected 1 kit, got %d", len(kits))
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete failed: %v", err)
	}
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestBrandKitNilSocials(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	s := NewBrandKitStore(db)

	created, err := s.Create(&models.BrandKit{UserID: user.ID, KitName: "No Socials"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Socials == nil {
		t.Error("expected empty map, got nil socials")
	}
	if len(created.Socials) != 0 {
		t.Errorf("expected empty socials, got %v", created.Socials)
	}
}
