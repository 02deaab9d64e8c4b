// Package slug derives URL-safe identifiers from human-readable domain
// names. German umlauts are transliterated before generic diacritic
// stripping so that "Zähler" becomes "zaehler" rather than "zahler".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// germanLetters maps umlauts and sharp s to their ASCII transliterations.
// Applied before NFKD stripping, which would otherwise reduce ä to a.
var germanLetters = strings.NewReplacer(
	"ä", "ae", "Ä", "Ae",
	"ö", "oe", "Ö", "Oe",
	"ü", "ue", "Ü", "Ue",
	"ß", "ss", "ẞ", "SS",
)

// stripMarks decomposes to NFKD and removes combining marks, folding
// remaining diacritics (é -> e, č -> c).
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and folds German letters and diacritics to ASCII.
// It keeps all non-letter characters intact; callers decide how to
// handle punctuation and whitespace.
func Fold(s string) string {
	s = germanLetters.Replace(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	return strings.ToLower(s)
}

// Slugify converts free text into a slug: folded to ASCII lowercase,
// with every run of characters outside [a-z0-9] collapsed into a single
// hyphen and leading/trailing hyphens trimmed. Slugify is pure and
// idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = Fold(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// ForElement builds the slug for a data element from its external
// identifier and human name. The identifier's colons become hyphens
// before slugification; empty parts are omitted.
func ForElement(id, name string) string {
	idPart := Slugify(strings.ReplaceAll(id, ":", "-"))
	namePart := Slugify(name)

	switch {
	case idPart == "":
		return namePart
	case namePart == "":
		return idPart
	default:
		return idPart + "-" + namePart
	}
}
