// Package textutil holds the text canonicalization used for product identity
// and display formatting.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes, drops combining marks, and recomposes,
// so "Maçã" folds to "Maca" before lowercasing.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, collapses internal whitespace, and
// trims the ends. It is idempotent and is the identity key for catalog
// deduplication; never use its output for display.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// TitleCase trims and lowercases the input, then capitalizes the first letter
// of each whitespace-delimited word. Diacritics are preserved; this is the
// display form stored in the catalog.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
