// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"regexp"
	"strings"
)

const footerMaxLen = 500

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Copyright line: from the glyph through the first period.
	copyrightRe = regexp.MustCompile(`©[^.]*\.?`)

	// Street address: digits followed by words ending in a street or
	// country keyword, plus any trailing locality on the same clause.
	addressRe = regexp.MustCompile(`(?i)\d+[a-z0-9\s,'&-]*\b(street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|suite|plaza|square|usa|united states|uk|canada|australia)\b[a-z0-9\s,'&-]*`)

	// Legal fragment: the keyword plus the 100 characters after it.
	disclaimerRe = regexp.MustCompile(`(?i)(terms|disclaimer|rights|reserved)`)
)

// ParseFooter isolates copyright, address, and disclaimer substrings
// from footer text. The text is whitespace-normalized and truncated to
// 500 characters first. Every field defaults to the empty string when
// its pattern does not match; ParseFooter never fails.
func ParseFooter(text string) FooterFields {
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	if len(normalized) > footerMaxLen {
		normalized = normalized[:footerMaxLen]
	}

	var f FooterFields

	if m := copyrightRe.FindString(normalized); m != "" {
		f.Copyright = strings.TrimSpace(m)
	}

	if m := addressRe.FindString(normalized); m != "" {
		f.Address = strings.TrimSpace(m)
	}

	if loc := disclaimerRe.FindStringIndex(normalized); loc != nil {
		end := loc[1] + 100
		if end > len(normalized) {
			end = len(normalized)
		}
		f.Disclaimers = strings.TrimSpace(normalized[loc[0]:end])
	}

	return f
}
