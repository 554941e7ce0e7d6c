// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Heuristic priority scores. Structured data is most trustworthy,
// filename patterns least.
const (
	scoreJSONLD    = 100
	scoreInlineSVG = 90
	scoreSelector  = 80
	scoreIconBase  = 40
	scorePattern   = 20
)

// probeLimit is how many top candidates get a reachability probe.
const probeLimit = 5

// logoSelectors are tried in order; the score decreases per index so
// more specific selectors outrank generic ones.
var logoSelectors = []string{
	`header img[class*="logo"]`,
	`header img[id*="logo"]`,
	`nav img[class*="logo"]`,
	`a[href="/"] img`,
	`.logo img`,
	`img.logo`,
}

// collectLogoCandidates runs the five logo heuristics over the document
// and returns scored candidates with URLs resolved against baseURL.
// Identical URLs from different heuristics are deduplicated, keeping
// the higher score.
func collectLogoCandidates(doc *goquery.Document, baseURL string) []LogoCandidate {
	var out []LogoCandidate

	out = append(out, jsonLDLogos(doc)...)
	out = append(out, inlineSVGLogos(doc)...)
	out = append(out, selectorLogos(doc)...)
	out = append(out, iconLinkLogos(doc)...)
	out = append(out, patternLogos(doc)...)

	return dedupeCandidates(resolveCandidates(out, baseURL))
}

// jsonLDLogos finds organization logos declared in JSON-LD blocks.
func jsonLDLogos(doc *goquery.Document) []LogoCandidate {
	var out []LogoCandidate
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		for _, u := range findJSONLogoURLs(data) {
			out = append(out, LogoCandidate{URL: u, Source: SourceJSONLD, Score: scoreJSONLD})
		}
	})
	return out
}

// findJSONLogoURLs walks arbitrary JSON-LD looking for "logo" values,
// which may be a string, an ImageObject with a url, or nested in @graph.
func findJSONLogoURLs(data any) []string {
	var urls []string
	switch v := data.(type) {
	case map[string]any:
		if logo, ok := v["logo"]; ok {
			switch l := logo.(type) {
			case string:
				urls = append(urls, l)
			case map[string]any:
				if u, ok := l["url"].(string); ok {
					urls = append(urls, u)
				}
			}
		}
		for _, child := range v {
			urls = append(urls, findJSONLogoURLs(child)...)
		}
	case []any:
		for _, item := range v {
			urls = append(urls, findJSONLogoURLs(item)...)
		}
	}
	return urls
}

// inlineSVGLogos captures SVG markup embedded in the header as data
// URLs. Vector logos scale losslessly, so these rank just below
// structured data.
func inlineSVGLogos(doc *goquery.Document) []LogoCandidate {
	var out []LogoCandidate
	doc.Find("header svg, nav svg").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		markup, err := goquery.OuterHtml(s)
		if err != nil || strings.TrimSpace(markup) == "" {
			return true
		}
		out = append(out, LogoCandidate{
			URL:    "data:image/svg+xml;utf8," + url.PathEscape(markup),
			Source: SourceInlineSVG,
			Score:  scoreInlineSVG,
		})
		return false // first header SVG only
	})
	return out
}

func selectorLogos(doc *goquery.Document) []LogoCandidate {
	var out []LogoCandidate
	for i, sel := range logoSelectors {
		src, ok := doc.Find(sel).First().Attr("src")
		if !ok || src == "" {
			continue
		}
		out = append(out, LogoCandidate{URL: src, Source: SourceSelector, Score: scoreSelector - i})
	}
	return out
}

// iconLinkLogos scores favicon/touch-icon links by their declared sizes.
func iconLinkLogos(doc *goquery.Document) []LogoCandidate {
	var out []LogoCandidate
	doc.Find(`link[rel~="icon"], link[rel="apple-touch-icon"], link[rel="shortcut icon"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		c := LogoCandidate{URL: href, Source: SourceIconLink, Score: scoreIconBase}
		if sizes, ok := s.Attr("sizes"); ok {
			w, h := parseSizes(sizes)
			c.Width, c.Height = w, h
			if w >= 192 {
				c.Score += 20
			} else if w >= 96 {
				c.Score += 10
			}
		}
		out = append(out, c)
	})
	return out
}

// parseSizes reads the first "WxH" token of a link sizes attribute.
func parseSizes(sizes string) (int, int) {
	token := strings.Fields(strings.ToLower(sizes))
	if len(token) == 0 {
		return 0, 0
	}
	parts := strings.SplitN(token[0], "x", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	w, _ := strconv.Atoi(parts[0])
	h, _ := strconv.Atoi(parts[1])
	return w, h
}

// patternLogos is the weakest heuristic: any img whose filename or alt
// text mentions "logo".
func patternLogos(doc *goquery.Document) []LogoCandidate {
	var out []LogoCandidate
	doc.Find(`img[src*="logo"], img[alt*="logo"], img[alt*="Logo"]`).Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			out = append(out, LogoCandidate{URL: src, Source: SourcePattern, Score: scorePattern})
		}
	})
	return out
}

// resolveCandidates makes every candidate URL absolute against base.
// data: URLs pass through untouched; unresolvable URLs are dropped.
func resolveCandidates(in []LogoCandidate, base string) []LogoCandidate {
	baseURL, err := url.Parse(base)
	out := in[:0]
	for _, c := range in {
		if strings.HasPrefix(c.URL, "data:") {
			out = append(out, c)
			continue
		}
		if err != nil || base == "" {
			continue
		}
		ref, perr := url.Parse(c.URL)
		if perr != nil {
			continue
		}
		c.URL = baseURL.ResolveReference(ref).String()
		out = append(out, c)
	}
	return out
}

// dedupeCandidates removes exact URL duplicates, keeping the highest
// scored occurrence.
func dedupeCandidates(in []LogoCandidate) []LogoCandidate {
	best := map[string]LogoCandidate{}
	order := make([]string, 0, len(in))
	for _, c := range in {
		prev, seen := best[c.URL]
		if !seen {
			order = append(order, c.URL)
			best[c.URL] = c
			continue
		}
		if c.Score > prev.Score {
			best[c.URL] = c
		}
	}
	out := make([]LogoCandidate, 0, len(order))
	for _, u := range order {
		out = append(out, best[u])
	}
	return out
}

// Ranker probes logo candidates and picks the primary logo.
type Ranker struct {
	Client       *http.Client
	ProbeTimeout time.Duration
}

// NewRanker returns a ranker with a 5s per-probe budget.
func NewRanker() *Ranker {
	return &Ranker{
		Client:       &http.Client{Timeout: 10 * time.Second},
		ProbeTimeout: 5 * time.Second,
	}
}

// Select picks the primary logo URL and the icon URL from the candidate
// set. The top candidates are probed concurrently; a failed probe drops
// that candidate silently. Selection prefers the first high-resolution
// survivor in priority order, then the highest-priority survivor, then
// the empty string.
func (r *Ranker) Select(ctx context.Context, candidates []LogoCandidate) (primary, icon string) {
	sorted := make([]LogoCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	// Icon comes from the best-scored icon link, no probe needed: a
	// missing favicon just renders as a broken image in previews.
	for _, c := range sorted {
		if c.Source == SourceIconLink {
			icon = c.URL
			break
		}
	}

	top := sorted
	if len(top) > probeLimit {
		top = top[:probeLimit]
	}

	survivors := make([]bool, len(top))
	probed := make([]LogoCandidate, len(top))
	copy(probed, top)

	g, gctx := errgroup.WithContext(ctx)
	for i := range probed {
		i := i
		g.Go(func() error {
			if ok := r.probe(gctx, &probed[i]); ok {
				survivors[i] = true
			}
			return nil // probe failures drop the candidate, never abort
		})
	}
	g.Wait()

	for i, c := range probed {
		if survivors[i] && highResolution(c) {
			return c.URL, icon
		}
	}
	for i, c := range probed {
		if survivors[i] {
			return c.URL, icon
		}
	}
	return "", icon
}

// probe checks that a candidate URL is reachable and fills in
// content-type and size metadata. data: URLs are accepted as-is.
func (r *Ranker) probe(ctx context.Context, c *LogoCandidate) bool {
	if strings.HasPrefix(c.URL, "data:") {
		if strings.HasPrefix(c.URL, "data:image/svg") {
			c.ContentType = "image/svg+xml"
		}
		c.FileSize = int64(len(c.URL))
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, r.ProbeTimeout)
	defer cancel()

	if ok := r.tryProbe(ctx, c, http.MethodHead, false); ok {
		return true
	}
	// Some origins reject HEAD; retry with a ranged GET.
	return r.tryProbe(ctx, c, http.MethodGet, true)
}

func (r *Ranker) tryProbe(ctx context.Context, c *LogoCandidate, method string, ranged bool) bool {
	req, err := http.NewRequestWithContext(ctx, method, c.URL, nil)
	if err != nil {
		return false
	}
	if ranged {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false
	}

	c.ContentType = resp.Header.Get("Content-Type")
	if ranged {
		// Content-Range carries the full size: "bytes 0-0/12345".
		if cr := resp.Header.Get("Content-Range"); cr != "" {
			if i := strings.LastIndex(cr, "/"); i >= 0 {
				if n, err := strconv.ParseInt(cr[i+1:], 10, 64); err == nil {
					c.FileSize = n
				}
			}
		}
	} else if resp.ContentLength > 0 {
		c.FileSize = resp.ContentLength
	}

	return true
}

// highResolution reports whether a candidate is usable as the primary
// logo: vector formats always are; raster needs stated dimensions of at
// least 100px or a file size over 10KB.
func highResolution(c LogoCandidate) bool {
	if strings.Contains(c.ContentType, "svg") || strings.HasSuffix(strings.ToLower(strings.SplitN(c.URL, "?", 2)[0]), ".svg") {
		return true
	}
	if strings.HasPrefix(c.URL, "data:image/svg") {
		return true
	}
	if c.Width >= 100 || c.Height >= 100 {
		return true
	}
	return c.FileSize > 10*1024
}
