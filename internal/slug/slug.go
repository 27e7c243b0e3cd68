// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and collision-free slugs scoped to an entity kind.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators matches runs of whitespace and hyphens.
	separators = regexp.MustCompile(`[\s-]+`)
)

// Generate creates a URL-friendly slug from the given string using "-" as
// the word separator.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	return GenerateSep(s, "-")
}

// GenerateSep is Generate with a custom word separator.
// Accents are folded ("Café Crème" → "cafe-creme") before anything
// non-alphanumeric is dropped.
func GenerateSep(s, sep string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.Trim(separators.ReplaceAllString(result, " "), " ")
	if result == "" {
		return ""
	}
	return strings.ReplaceAll(result, " ", sep)
}

// fold strips combining marks after canonical decomposition.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
