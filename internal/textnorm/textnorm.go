// Package textnorm normalizes raw item text. It produces two independent
// forms from the same input: a clean form for storage and scoring, and a
// match form used only for place-keyword matching. The two are never
// interchangeable.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9\s]+`)
	spacesPattern   = regexp.MustCompile(`\s+`)
)

// apostropheReplacer folds typographic apostrophe variants to a plain
// apostrophe before the non-alphanumeric strip, so contractions collapse
// the same way regardless of which quote character the source used.
var apostropheReplacer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
)

// Clean collapses whitespace runs to single spaces and trims the ends,
// preserving case and punctuation. Empty input yields "".
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MatchForm normalizes text for place-keyword substring search: lowercase,
// apostrophes folded, URLs stripped, diacritics removed, every run outside
// [a-z0-9\s] replaced with a single space, whitespace collapsed, and the
// result padded with one leading and one trailing space so callers can
// require word-boundary spaces on both sides of a phrase.
//
// Empty input yields "  " (two spaces); substring search against it simply
// finds nothing, so callers must not special-case it.
func MatchForm(s string) string {
	t := strings.ToLower(s)
	t = apostropheReplacer.Replace(t)
	t = urlPattern.ReplaceAllString(t, " ")
	t = removeAccents(t)
	t = nonAlnumPattern.ReplaceAllString(t, " ")
	t = strings.TrimSpace(spacesPattern.ReplaceAllString(t, " "))
	return " " + t + " "
}

// removeAccents strips diacritical marks so "montréal" matches "montreal".
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
