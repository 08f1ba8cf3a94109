package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeSearchText lowercases, strips diacritics and trims a string so
// that "Salud" and "salúd" compare equal.
func NormalizeSearchText(text string) string {
	stripped, _, err := transform.String(diacriticStripper, text)
	if err != nil {
		stripped = text
	}
	return strings.TrimSpace(strings.ToLower(stripped))
}

// ContainsNormalized reports whether haystack contains needle after both
// are search-normalized.
func ContainsNormalized(haystack, needle string) bool {
	return strings.Contains(NormalizeSearchText(haystack), NormalizeSearchText(needle))
}
