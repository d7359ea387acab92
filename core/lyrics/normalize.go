// ABOUTME: Query normalizer turns a noisy lyric fragment into a canonical search string
// ABOUTME: Keeps only lowercase ASCII letters and whitespace, trimmed at both ends

package lyrics

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, drops every rune outside a-z and whitespace, and
// trims the result. It is total and idempotent.
//
//	Normalize("I'm Walking Away!! 2023") == "im walking away"
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	kept := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lowered)
	return strings.TrimSpace(kept)
}

// Retryable returns the normalized form of query and whether a second search
// with it is worthwhile: it must be non-empty and differ from query.
func Retryable(query string) (string, bool) {
	normalized := Normalize(query)
	return normalized, normalized != "" && normalized != query
}
