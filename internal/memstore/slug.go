package memstore

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes characters and drops their combining marks,
// turning "São" into "Sao".
var foldDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slug derives a deterministic document key from free-form text:
// diacritics are folded away, remaining non-ASCII runes dropped, the
// result lower-cased and whitespace runs joined with hyphens. Two display
// strings that normalize to the same slug name the same entity.
func Slug(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(strings.ToLower(b.String())), "-")
}
