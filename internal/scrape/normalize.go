// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"capsule/internal/ai"
)

// DefaultPalette is applied to invalid or missing theme colors.
var DefaultPalette = ThemeColors{
	Background: "#FFFFFF",
	Container:  "#F5F5F5",
	Accent:     "#000000",
	ButtonText: "#FFFFFF",
	Foreground: "#111111",
}

const normalizeSystemPrompt = `You clean up raw branding data scraped from a website.
Rules:
- Strip noise suffixes from the site name (taglines, " | Home", " - Official Site"). Never invent a new name.
- Leave valid fields untouched.
- Replace only clearly invalid theme colors; keep any plausible CSS color as-is.
- If tone of voice is missing, use "professional".
- Write a one-line brand summary strictly from the existing name and description. Do not invent features.
Respond with a single JSON object:
{"name": "...", "summary": "...", "tone": "...", "copyright": "...", "address": "...", "disclaimers": "...",
 "colors": {"color_background": "...", "color_container": "...", "color_accent": "...", "color_button_text": "...", "color_foreground": "..."}}`

// NormalizedKit is the model's corrected bundle.
type NormalizedKit struct {
	Name        string      `json:"name" validate:"required"`
	Summary     string      `json:"summary"`
	Tone        string      `json:"tone"`
	Copyright   string      `json:"copyright"`
	Address     string      `json:"address"`
	Disclaimers string      `json:"disclaimers"`
	Colors      ThemeColors `json:"colors"`
}

// cssColorRe accepts hex, rgb()/rgba(), and hsl()/hsla() values.
var cssColorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3}(?:[0-9a-fA-F]{3})?|rgba?\([\d\s.,%]+\)|hsla?\([\d\s.,%]+\))$`)

func validColor(c string) bool {
	return cssColorRe.MatchString(strings.TrimSpace(c))
}

// Normalizer runs the LLM correction pass over a raw extracted bundle.
type Normalizer struct {
	registry *ai.Registry
}

func NewNormalizer(registry *ai.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize corrects a raw kit. The model output is advisory: a valid
// color extracted from the page always survives, and any color left
// invalid after the model pass falls back to the default palette. When
// the model returns something unparseable, the raw bundle with local
// defaults is used instead — a flaky model never fails kit creation.
func (n *Normalizer) Normalize(ctx context.Context, raw RawKit) NormalizedKit {
	payload, _ := json.Marshal(raw)
	userPrompt := fmt.Sprintf("Raw scraped data:\n%s", payload)

	var fixed NormalizedKit
	err := ai.CompleteJSON(ctx, n.registry, normalizeSystemPrompt, userPrompt, &fixed)
	if err != nil {
		var pe *ai.ParseError
		if errors.As(err, &pe) {
			slog.Warn("brand normalizer returned malformed output, using raw extraction",
				"website", raw.Website, "error", err)
		} else {
			slog.Warn("brand normalizer unavailable, using raw extraction",
				"website", raw.Website, "error", err)
		}
		fixed = fallbackKit(raw)
	}

	// Corrective only: a valid extracted color is never replaced.
	fixed.Colors = mergeColors(raw.Colors, fixed.Colors)

	if fixed.Tone == "" {
		fixed.Tone = "professional"
	}
	if fixed.Name == "" {
		fixed.Name = raw.Name
	}
	if fixed.Copyright == "" {
		fixed.Copyright = raw.Copyright
	}
	if fixed.Address == "" {
		fixed.Address = raw.Address
	}
	if fixed.Disclaimers == "" {
		fixed.Disclaimers = raw.Disclaimers
	}

	return fixed
}

// fallbackKit builds a normalized kit straight from the raw extraction.
func fallbackKit(raw RawKit) NormalizedKit {
	return NormalizedKit{
		Name:        raw.Name,
		Summary:     raw.Description,
		Tone:        "professional",
		Copyright:   raw.Copyright,
		Address:     raw.Address,
		Disclaimers: raw.Disclaimers,
		Colors:      raw.Colors,
	}
}

// mergeColors resolves each color field: a valid raw value wins, then a
// valid corrected value, then the default palette.
func mergeColors(raw, fixed ThemeColors) ThemeColors {
	pick := func(rawC, fixedC, def string) string {
		if validColor(rawC) {
			return rawC
		}
		if validColor(fixedC) {
			return fixedC
		}
		return def
	}
	return ThemeColors{
		Background: pick(raw.Background, fixed.Background, DefaultPalette.Background),
		Container:  pick(raw.Container, fixed.Container, DefaultPalette.Container),
		Accent:     pick(raw.Accent, fixed.Accent, DefaultPalette.Accent),
		ButtonText: pick(raw.ButtonText, fixed.ButtonText, DefaultPalette.ButtonText),
		Foreground: pick(raw.Foreground, fixed.Foreground, DefaultPalette.Foreground),
	}
}
