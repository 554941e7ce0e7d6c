// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"net/http"
	"time"
)

// openRouterProvider implements the Provider interface using OpenRouter's
// chat completions API, which is OpenAI-compatible.
type openRouterProvider struct {
	inner *groqProvider
}

// newOpenRouter creates a new OpenRouter provider. OpenRouter uses an
// OpenAI-compatible API at a different base URL and routes to the model
// named in the config (e.g. "google/gemini-2.5-flash").
func newOpenRouter(cfg ProviderConfig) *openRouterProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	return &openRouterProvider{
		inner: &groqProvider{
			config: cfg,
			client: &http.Client{Timeout: 60 * time.Second},
		},
	}
}

func (p *openRouterProvider) Name() string { return "openrouter" }

// Generate sends a chat completion request to OpenRouter and returns the
// assistant's response text.
func (p *openRouterProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := chatRequest{
		Model: p.inner.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	return p.inner.doChat(ctx, body)
}
