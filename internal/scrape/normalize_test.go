// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"context"
	"testing"

	"capsule/internal/ai"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Generate(ctx context.Context, system, user string) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func fakeRegistry(reply string, err error) *ai.Registry {
	r := ai.NewRegistry("fake", nil)
	r.Register("fake", &fakeProvider{reply: reply, err: err})
	return r
}

func TestNormalizeCorrectsName(t *testing.T) {
	reply := `{"name":"Acme","summary":"Acme makes widgets","tone":"friendly",
		"colors":{"color_background":"#FFFFFF","color_container":"#F5F5F5","color_accent":"#FF0000","color_button_text":"#FFFFFF","color_foreground":"#111111"}}`
	n := NewNormalizer(fakeRegistry(reply, nil))

	raw := RawKit{Name: "Acme Inc | Home", Description: "Widgets"}
	fixed := n.Normalize(context.Background(), raw)

	if fixed.Name != "Acme" {
		t.Errorf("name = %q", fixed.Name)
	}
	if fixed.Tone != "friendly" {
		t.Errorf("tone = %q", fixed.Tone)
	}
}

func TestNormalizeKeepsValidExtractedColors(t *testing.T) {
	// The model tries to rewrite an already-valid color.
	reply := `{"name":"Acme","colors":{"color_accent":"#00FF00"}}`
	n := NewNormalizer(fakeRegistry(reply, nil))

	raw := RawKit{Name: "Acme", Colors: ThemeColors{Accent: "#ff0000"}}
	fixed := n.Normalize(context.Background(), raw)

	if fixed.Colors.Accent != "#ff0000" {
		t.Errorf("valid extracted color must survive, got %q", fixed.Colors.Accent)
	}
}

func TestNormalizeDefaultsMissingAccent(t *testing.T) {
	reply := `{"name":"Acme","colors":{}}`
	n := NewNormalizer(fakeRegistry(reply, nil))

	fixed := n.Normalize(context.Background(), RawKit{Name: "Acme"})

	if fixed.Colors.Accent != "#000000" {
		t.Errorf("missing accent should default to #000000, got %q", fixed.Colors.Accent)
	}
	if fixed.Colors.Background != "#FFFFFF" {
		t.Errorf("missing background should default, got %q", fixed.Colors.Background)
	}
}

func TestNormalizeDefaultsTone(t *testing.T) {
	reply := `{"name":"Acme"}`
	n := NewNormalizer(fakeRegistry(reply, nil))

	fixed := n.Normalize(context.Background(), RawKit{Name: "Acme"})
	if fixed.Tone != "professional" {
		t.Errorf("tone should default to professional, got %q", fixed.Tone)
	}
}

func TestNormalizeFallsBackOnMalformedOutput(t *testing.T) {
	n := NewNormalizer(fakeRegistry("I cannot produce JSON today", nil))

	raw := RawKit{
		Name:        "Acme Inc",
		Description: "Widgets for everyone",
		Copyright:   "© 2024 Acme Inc.",
		Colors:      ThemeColors{Background: "rgb(255, 255, 255)"},
	}
	fixed := n.Normalize(context.Background(), raw)

	if fixed.Name != "Acme Inc" {
		t.Errorf("fallback should keep the raw name, got %q", fixed.Name)
	}
	if fixed.Copyright != "© 2024 Acme Inc." {
		t.Errorf("fallback should keep the raw copyright, got %q", fixed.Copyright)
	}
	if fixed.Colors.Background != "rgb(255, 255, 255)" {
		t.Errorf("valid raw color should survive fallback, got %q", fixed.Colors.Background)
	}
	if fixed.Colors.Accent != "#000000" {
		t.Errorf("missing colors get palette defaults, got %q", fixed.Colors.Accent)
	}
}

func TestValidColor(t *testing.T) {
	valid := []string{"#fff", "#FF0000", "rgb(255, 0, 0)", "rgba(0,0,0,0.5)", "hsl(120, 50%, 50%)"}
	for _, c := range valid {
		if !validColor(c) {
			t.Errorf("%q should be valid", c)
		}
	}
	invalid := []string{"", "red-ish", "#GGGGGG", "url(x)", "255,0,0"}
	for _, c := range invalid {
		if validColor(c) {
			t.Errorf("%q should be invalid", c)
		}
	}
}
