// ABOUTME: Text utilities for cleaning provider strings before they reach the chat
// ABOUTME: Decodes entities, drops invisible characters and collapses whitespace

package text

import (
	"strings"

	"golang.org/x/net/html"
)

// invisible runes the lyrics provider leaves in titles and names
var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200e", "",
	"\u200f", "",
	"\ufeff", "",
)

// CleanField decodes HTML entities, removes zero-width characters and
// collapses runs of whitespace, including non-breaking spaces, into one space
func CleanField(s string) string {
	if s == "" {
		return ""
	}

	s = html.UnescapeString(s)
	s = invisible.Replace(s)

	// strings.Fields splits on unicode.IsSpace, which covers U+00A0
	return strings.Join(strings.Fields(s), " ")
}
