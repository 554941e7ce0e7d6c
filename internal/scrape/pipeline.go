// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"capsule/internal/models"
)

// cacheTTL bounds how long a raw extraction is reused for the same URL.
const cacheTTL = time.Hour

// PageRenderer is the renderer stage contract; satisfied by *Renderer.
type PageRenderer interface {
	Render(ctx context.Context, url string) (*RenderedPage, error)
}

// Cache stores raw extraction results keyed by URL so re-scraping an
// unchanged page skips the browser entirely. A nil Cache disables it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// Service orchestrates the full extraction pipeline:
// render → extract → (logo ranking, footer parsing) → normalize.
type Service struct {
	renderer   PageRenderer
	ranker     *Ranker
	normalizer *Normalizer
	cache      Cache
}

func NewService(renderer PageRenderer, ranker *Ranker, normalizer *Normalizer, cache Cache) *Service {
	return &Service{
		renderer:   renderer,
		ranker:     ranker,
		normalizer: normalizer,
		cache:      cache,
	}
}

// Scrape runs the pipeline against url and assembles a brand kit record
// for userID. The record is not persisted; the caller owns the write.
func (s *Service) Scrape(ctx context.Context, userID uuid.UUID, url, kitName string) (*models.BrandKit, error) {
	raw, err := s.rawKit(ctx, url)
	if err != nil {
		return nil, err
	}

	fixed := s.normalizer.Normalize(ctx, *raw)

	name := kitName
	if name == "" {
		name = fixed.Name
	}

	return &models.BrandKit{
		UserID:          userID,
		KitName:         name,
		Website:         raw.Website,
		BrandSummary:    fixed.Summary,
		Address:         fixed.Address,
		ToneOfVoice:     fixed.Tone,
		Copyright:       fixed.Copyright,
		FooterText:      raw.FooterText,
		Disclaimers:     fixed.Disclaimers,
		Socials:         raw.Socials,
		LogoPrimaryURL:  raw.LogoPrimary,
		LogoIconURL:     raw.LogoIcon,
		ColorBackground: fixed.Colors.Background,
		ColorContainer:  fixed.Colors.Container,
		ColorAccent:     fixed.Colors.Accent,
		ColorButtonText: fixed.Colors.ButtonText,
		ColorForeground: fixed.Colors.Foreground,
	}, nil
}

// rawKit returns the cached extraction for url, or renders and extracts
// fresh. Extraction is deterministic for an unchanged page, so serving
// from cache preserves idempotence.
func (s *Service) rawKit(ctx context.Context, url string) (*RawKit, error) {
	cacheKey := "scrape:" + url

	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, cacheKey); ok {
			var raw RawKit
			if err := json.Unmarshal(data, &raw); err == nil {
				slog.Debug("scrape cache hit", "url", url)
				return &raw, nil
			}
		}
	}

	page, err := s.renderer.Render(ctx, url)
	if err != nil {
		return nil, err
	}

	ex := Extract(page)
	footer := ParseFooter(ex.FooterText)
	primary, icon := s.ranker.Select(ctx, ex.LogoCandidates)

	raw := &RawKit{
		Name:        ex.Title,
		Description: ex.Description,
		Website:     page.FinalURL,
		Colors:      ex.Colors,
		Copyright:   footer.Copyright,
		Address:     footer.Address,
		Disclaimers: footer.Disclaimers,
		FooterText:  ex.FooterText,
		Socials:     ex.Socials,
		LogoPrimary: primary,
		LogoIcon:    icon,
	}

	if s.cache != nil {
		if data, err := json.Marshal(raw); err == nil {
			s.cache.Set(ctx, cacheKey, data, cacheTTL)
		}
	}

	return raw, nil
}
