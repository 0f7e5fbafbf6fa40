// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// Thread titles become permalink slugs ("Server won't start!" -> "server-won-t-start").
// Slugs are cosmetic: threads are always looked up by id.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. NFD-normalize and drop combining marks (é -> e).
//  2. Lowercase.
//  3. Replace every run of non-alphanumerics with one hyphen and trim hyphens.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// Truncated returns [From] cut to at most maxLen bytes on a word boundary.
func Truncated(s string, maxLen int) string {
	result := From(s)
	if len(result) <= maxLen {
		return result
	}

	result = result[:maxLen]
	if cut := strings.LastIndexByte(result, '-'); cut > 0 {
		result = result[:cut]
	}
	return strings.Trim(result, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
