// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scrape implements the brand extraction pipeline: render a
// page in a headless browser, pull branding features out of the DOM,
// rank logo candidates, parse the legal footer, and run an LLM
// correction pass over the raw bundle.
package scrape

// ThemeColors holds the computed CSS colors read from a rendered page.
// Fields are empty strings when the page yields nothing.
type ThemeColors struct {
	Background string `json:"color_background"`
	Container  string `json:"color_container"`
	Accent     string `json:"color_accent"`
	ButtonText string `json:"color_button_text"`
	Foreground string `json:"color_foreground"`
}

// RenderedPage is the output of the renderer stage.
type RenderedPage struct {
	FinalURL string
	HTML     string
	Colors   ThemeColors
}

// Extraction is the flat bundle the DOM extractor produces. Every field
// is best-effort; absent selectors yield empty values, never errors.
type Extraction struct {
	Title          string
	Description    string
	Colors         ThemeColors
	FooterText     string
	Socials        map[string]string
	LogoCandidates []LogoCandidate
}

// Logo candidate sources, ordered by trust.
const (
	SourceJSONLD    = "jsonld"
	SourceInlineSVG = "inline-svg"
	SourceSelector  = "selector"
	SourceIconLink  = "icon-link"
	SourcePattern   = "pattern"
)

// LogoCandidate is one logo URL discovered by a heuristic, scored for
// ranking. Lives only for the duration of an extraction run.
type LogoCandidate struct {
	URL         string
	Source      string
	Score       int
	Width       int
	Height      int
	ContentType string
	FileSize    int64
}

// FooterFields are the substrings the footer parser isolates.
type FooterFields struct {
	Copyright   string
	Address     string
	Disclaimers string
}

// RawKit is the uncorrected brand bundle assembled from all extraction
// stages, fed to the normalizer (and cached per URL).
type RawKit struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Website     string            `json:"website"`
	Colors      ThemeColors       `json:"colors"`
	Copyright   string            `json:"copyright"`
	Address     string            `json:"address"`
	Disclaimers string            `json:"disclaimers"`
	FooterText  string            `json:"footer_text"`
	Socials     map[string]string `json:"socials"`
	LogoPrimary string            `json:"logo_primary_url"`
	LogoIcon    string            `json:"logo_icon_url"`
}
