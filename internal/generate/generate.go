// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generate builds branded HTML email drafts through the LLM
// providers. Refinement turns pass the prior draft's HTML back as
// context so the model edits instead of starting over.
package generate

import (
	"context"
	"fmt"
	"strings"

	"capsule/internal/ai"
	"capsule/internal/models"
)

const systemPrompt = `You are an expert HTML email designer.
You produce complete, self-contained HTML email documents with inline CSS only.
Use table-based layout that renders correctly in major email clients.
Apply the brand kit exactly: its colors, tone of voice, logo, footer text, and social links.
Respond with a single JSON object: {"title": "...", "description": "...", "code": "<full html document>"}.
The code field must contain the entire HTML document. Never include commentary outside the JSON.`

// Draft is one generated email revision.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code" validate:"required"`
}

// Generator produces email drafts against the active AI provider.
type Generator struct {
	registry *ai.Registry
}

func NewGenerator(registry *ai.Registry) *Generator {
	return &Generator{registry: registry}
}

// Draft generates an email for the given instruction. kit may be nil
// when the chat has no brand kit attached; priorHTML is empty on the
// first turn.
func (g *Generator) Draft(ctx context.Context, instruction string, kit *models.BrandKit, priorHTML string) (*Draft, error) {
	var d Draft
	if err := ai.CompleteJSON(ctx, g.registry, systemPrompt, BuildPrompt(instruction, kit, priorHTML), &d); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return &d, nil
}

// BuildPrompt assembles the user prompt from the instruction, the brand
// kit, and the previous revision's HTML.
func BuildPrompt(instruction string, kit *models.BrandKit, priorHTML string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Request: %s\n", instruction)

	if kit != nil {
		b.WriteString("\nBrand kit:\n")
		fmt.Fprintf(&b, "- Name: %s\n", kit.KitName)
		if kit.BrandSummary != "" {
			fmt.Fprintf(&b, "- Summary: %s\n", kit.BrandSummary)
		}
		fmt.Fprintf(&b, "- Tone of voice: %s\n", kit.ToneOfVoice)
		fmt.Fprintf(&b, "- Colors: background %s, container %s, accent %s, button text %s, foreground %s\n",
			kit.ColorBackground, kit.ColorContainer, kit.ColorAccent, kit.ColorButtonText, kit.ColorForeground)
		if kit.LogoPrimaryURL != "" {
			fmt.Fprintf(&b, "- Logo: %s\n", kit.LogoPrimaryURL)
		}
		if kit.Copyright != "" {
			fmt.Fprintf(&b, "- Copyright: %s\n", kit.Copyright)
		}
		if kit.FooterText != "" {
			fmt.Fprintf(&b, "- Footer: %s\n", kit.FooterText)
		}
		if kit.Disclaimers != "" {
			fmt.Fprintf(&b, "- Disclaimers: %s\n", kit.Disclaimers)
		}
		for platform, url := range kit.Socials {
			fmt.Fprintf(&b, "- Social (%s): %s\n", platform, url)
		}
	}

	if priorHTML != "" {
		b.WriteString("\nCurrent email HTML (edit this, do not start from scratch):\n")
		b.WriteString(priorHTML)
		b.WriteString("\n")
	}

	return b.String()
}
