// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"capsule/internal/browser"
)

// colorScript reads the computed CSS colors the extractor cares about.
// Each field tries a fixed priority list of elements and takes the first
// non-empty computed value; absent elements yield empty strings.
const colorScript = `(() => {
	const style = (sel, prop) => {
		const el = document.querySelector(sel);
		if (!el) return "";
		const v = getComputedStyle(el)[prop];
		return (!v || v === "rgba(0, 0, 0, 0)" || v === "transparent") ? "" : v;
	};
	const first = (...tries) => {
		for (const [sel, prop] of tries) {
			const v = style(sel, prop);
			if (v) return v;
		}
		return "";
	};
	return {
		color_background:  first(["body", "backgroundColor"], ["html", "backgroundColor"]),
		color_container:   first(["main", "backgroundColor"], ["header", "backgroundColor"], ["nav", "backgroundColor"]),
		color_accent:      first(["a", "color"], ["button", "backgroundColor"]),
		color_button_text: first(["button", "color"], ["a.button", "color"]),
		color_foreground:  first(["body", "color"], ["p", "color"]),
	};
})()`

// Renderer drives a pooled headless browser to fetch and render pages.
type Renderer struct {
	pool    *browser.Pool
	timeout time.Duration
}

// NewRenderer creates a renderer. timeout bounds the whole navigation;
// zero means the 20 second default.
func NewRenderer(pool *browser.Pool, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Renderer{pool: pool, timeout: timeout}
}

// Render navigates to url in a fresh tab, waits for the DOM to be ready
// (not full network idle, to bound latency), and returns the final URL,
// the serialized document, and the computed theme colors. Navigation
// failure or timeout fails the whole call; there is no retry.
func (r *Renderer) Render(ctx context.Context, url string) (*RenderedPage, error) {
	tabCtx, release, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	tabCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	page := &RenderedPage{}
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&page.FinalURL),
		chromedp.OuterHTML("html", &page.HTML, chromedp.ByQuery),
		chromedp.Evaluate(colorScript, &page.Colors),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape: failed to fetch site info for %s: %w", url, err)
	}

	return page, nil
}
