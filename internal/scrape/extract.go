// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// socialPlatforms maps a hostname fragment to the platform key stored
// in the brand kit socials mapping.
var socialPlatforms = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
	"youtube.com":   "youtube",
	"tiktok.com":    "tiktok",
	"pinterest.com": "pinterest",
	"github.com":    "github",
}

// Extract pulls branding features out of a rendered page. Every query
// degrades to an empty value when its selector is absent; Extract never
// returns an error.
func Extract(page *RenderedPage) Extraction {
	ex := Extraction{
		Colors:  page.Colors,
		Socials: map[string]string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return ex
	}

	ex.Title = extractTitle(doc)
	ex.Description = extractDescription(doc)
	ex.FooterText = extractFooterText(doc)
	ex.Socials = extractSocials(doc)
	ex.LogoCandidates = collectLogoCandidates(doc, page.FinalURL)

	return ex
}

func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	if d, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	if og, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

func extractFooterText(doc *goquery.Document) string {
	if text := strings.TrimSpace(doc.Find("footer").First().Text()); text != "" {
		return text
	}
	// Sites without a semantic footer element often still name the class.
	return strings.TrimSpace(doc.Find(`[class*="footer"]`).First().Text())
}

// extractSocials matches header/footer anchor hrefs against known
// platform domains. First link per platform wins.
func extractSocials(doc *goquery.Document) map[string]string {
	socials := map[string]string{}

	doc.Find("header a[href], footer a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lower := strings.ToLower(href)
		for domain, platform := range socialPlatforms {
			if strings.Contains(lower, domain) {
				if _, seen := socials[platform]; !seen {
					socials[platform] = href
				}
				return
			}
		}
	})

	return socials
}
