// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly identifiers from display titles.
// Category ids are slugs of their title at creation time and stay fixed
// through later renames.
package slug

import "strings"

// Generate creates a URL-friendly slug from the given string.
// Example: "Street, at Night! 2026" → "street-at-night-2026"
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		// Any other rune (punctuation, symbols) is dropped.
	}

	return strings.TrimRight(b.String(), "-")
}
